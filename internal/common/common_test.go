package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacircle/metasync/internal/models/dtos"
)

func TestValidateStructReportsEveryFailedField(t *testing.T) {
	errs := ValidateStruct(dtos.LoginReq{})
	require.Len(t, errs, 2)

	fields := map[string]string{}
	for _, fe := range errs {
		fields[fe.Field] = fe.Rule
	}
	assert.Equal(t, "required", fields["Username"])
	assert.Equal(t, "required", fields["Password"])
}

func TestValidateStructPasses(t *testing.T) {
	errs := ValidateStruct(dtos.LoginReq{Username: "admin", Password: "metasync123"})
	assert.Nil(t, errs)
}

func TestValidateStructRuleParam(t *testing.T) {
	errs := ValidateStruct(dtos.InsertUser{
		Username: "ab",
		Email:    "a@example.com",
		Password: "longenough",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Username", errs[0].Field)
	assert.Equal(t, "min", errs[0].Rule)
	assert.Contains(t, errs[0].Message, "min=3")
}

func TestCacheGetOrSet(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)

	calls := 0
	loader := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := cs.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = cs.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	cs.Delete("k")
	_, found := cs.Get("k")
	assert.False(t, found)
}

func TestCacheGetOrSetLoaderError(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)

	boom := errors.New("boom")
	_, err := cs.GetOrSet("k", time.Minute, func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	// A failed load must not poison the key.
	_, found := cs.Get("k")
	assert.False(t, found)
}
