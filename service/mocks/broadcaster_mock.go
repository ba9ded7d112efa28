package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/webboard/models"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) SendToAll(channel models.Channel, payload any) {
	m.Called(channel, payload)
}

func (m *MockBroadcaster) SendToOne(connId string, channel models.Channel, payload any) {
	m.Called(connId, channel, payload)
}

// Sent returns the arguments of every call to method, in call order.
func (m *MockBroadcaster) Sent(method string) []mock.Arguments {
	sent := []mock.Arguments{}
	for _, call := range m.Calls {
		if call.Method == method {
			sent = append(sent, call.Arguments)
		}
	}
	return sent
}
