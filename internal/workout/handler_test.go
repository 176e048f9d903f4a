package workout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerMock struct {
	result *CompleteResult
	err    error

	gotExercise string
	gotReps     *int
	gotLoad     *float64
}

func (c *completerMock) CompleteNextSet(_ context.Context, exercise string, repsOverride *int, loadOverride *float64) (*CompleteResult, error) {
	c.gotExercise = exercise
	c.gotReps = repsOverride
	c.gotLoad = loadOverride
	return c.result, c.err
}

func TestHandleHealth(t *testing.T) {
	handler := NewHandler(&completerMock{})

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.HandleHealth(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"status":"healthy","service":"coachbyte-api"}`, rr.Body.String())
}

func TestHandleRoot(t *testing.T) {
	handler := NewHandler(&completerMock{})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.HandleRoot(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "coachbyte-api", info["service"])
}

func TestHandleCompleteSet(t *testing.T) {
	mock := &completerMock{
		result: &CompleteResult{Completed: true, Message: "Completed bench press: 5 reps @ 185 load"},
	}
	handler := NewHandler(mock)

	req := httptest.NewRequest("POST", "/complete-set", strings.NewReader(`{"exercise":"bench press","reps":3}`))
	rr := httptest.NewRecorder()
	handler.HandleCompleteSet(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bench press", mock.gotExercise)
	require.NotNil(t, mock.gotReps)
	assert.Equal(t, 3, *mock.gotReps)
	assert.Nil(t, mock.gotLoad)

	var resp completeSetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Completed bench press: 5 reps @ 185 load", resp.Message)
}

func TestHandleCompleteSet_EmptyBody(t *testing.T) {
	mock := &completerMock{
		result: &CompleteResult{Message: "No planned sets remaining for today"},
	}
	handler := NewHandler(mock)

	req := httptest.NewRequest("POST", "/complete-set", nil)
	rr := httptest.NewRecorder()
	handler.HandleCompleteSet(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp completeSetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "No planned sets remaining for today", resp.Message)
}

func TestHandleCompleteSet_BadJSON(t *testing.T) {
	handler := NewHandler(&completerMock{})

	req := httptest.NewRequest("POST", "/complete-set", strings.NewReader(`{"exercise":`))
	rr := httptest.NewRecorder()
	handler.HandleCompleteSet(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleCompleteSet_ServiceError(t *testing.T) {
	handler := NewHandler(&completerMock{err: errors.New("db down")})

	req := httptest.NewRequest("POST", "/complete-set", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.HandleCompleteSet(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp completeSetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
