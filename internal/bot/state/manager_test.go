package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_States(t *testing.T) {
	m := NewManager()
	assert.Equal(t, None, m.GetUserState(1))

	m.SetUserState(1, WaitingForGlucose)
	assert.Equal(t, WaitingForGlucose, m.GetUserState(1))
	assert.Equal(t, None, m.GetUserState(2))

	m.ClearUserState(1)
	assert.Equal(t, None, m.GetUserState(1))
}

func TestManager_TempData(t *testing.T) {
	m := NewManager()
	_, ok := m.GetTempData(1, KeyCondition)
	assert.False(t, ok)

	m.SetTempData(1, KeyCondition, "hypertension")
	v, ok := m.GetTempData(1, KeyCondition)
	assert.True(t, ok)
	assert.Equal(t, "hypertension", v)

	m.ClearTempData(1)
	_, ok = m.GetTempData(1, KeyCondition)
	assert.False(t, ok)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetUserState(id, WaitingForWater)
			m.SetTempData(id, KeyCondition, "diabetes")
			_ = m.GetUserState(id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, WaitingForWater, m.GetUserState(49))
}
