package engine

import (
	"errors"

	"github.com/dm/esadvisor/internal/client/clienttest"
)

// MockESClient implements client.ESClient for testing.
type MockESClient = clienttest.MockESClient

var errMockFailure = errors.New("mock failure")
