package service

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/zlnvch/webboard/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateChatMessage checks the message type. Sender and content are free
// text and are not checked.
func ValidateChatMessage(msg models.ChatMessage) error {
	if err := validate.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// ValidateDrawEvent checks the event type and line width. Color is not
// checked: eraser strokes get the canvas color and clients may send none.
func ValidateDrawEvent(event models.DrawEvent) error {
	if err := validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func decodeChatMessage(data []byte) (models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return msg, ValidateChatMessage(msg)
}

func decodeDrawEvent(data []byte) (models.DrawEvent, error) {
	var event models.DrawEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return event, nil
}
