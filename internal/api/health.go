package api

import (
	"net/http"
	"time"

	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/models/entities"
	"metacircle/metasync/internal/store"
)

// HealthCheckHandler handles GET /healthz. Store reachability is probed
// with the cheapest read in the contract.
func HealthCheckHandler(st store.Store, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		storeStatus := "ok"
		storeDetails := "Store reachable"
		if _, err := st.GetUser(r.Context(), constants.DemoUserID); err != nil && err != store.ErrNotFound {
			storeStatus = "down"
			storeDetails = err.Error()
		}
		services["store"] = entities.ServiceStatus{
			Status:  storeStatus,
			Details: storeDetails,
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		now := time.Now()
		uptime := now.Sub(upSince).Round(time.Second).String()

		respondJSON(w, http.StatusOK, entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   uptime,
		})
	}
}
