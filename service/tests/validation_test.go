package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/service"
)

func TestValidateDrawEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   models.DrawEvent
		wantErr bool
	}{
		{"Start", models.DrawEvent{Type: models.DrawStart}, false},
		{"Draw With Width", models.DrawEvent{Type: models.DrawDraw, LineWidth: 4.5}, false},
		{"Erase Without Color", models.DrawEvent{Type: models.DrawErase}, false},
		{"Clear", models.DrawEvent{Type: models.DrawClear}, false},
		{"Empty Type", models.DrawEvent{}, true},
		{"Lowercase Type", models.DrawEvent{Type: "draw"}, true},
		{"Negative Width", models.DrawEvent{Type: models.DrawEnd, LineWidth: -0.5}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateDrawEvent(tc.event)
			if tc.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     models.ChatMessage
		wantErr bool
	}{
		{"Chat", models.ChatMessage{Type: models.MessageChat, Content: "hi"}, false},
		{"Join", models.ChatMessage{Type: models.MessageJoin, Sender: "bob"}, false},
		{"Leave", models.ChatMessage{Type: models.MessageLeave}, false},
		{"No Type", models.ChatMessage{Sender: "bob"}, false},
		{"Unknown Type", models.ChatMessage{Type: "WHISPER"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateChatMessage(tc.msg)
			if tc.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
