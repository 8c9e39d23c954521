package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const claimDeviceID = "device_id"

var (
	// ErrNoDeviceID is returned when the token payload carries no device_id claim.
	ErrNoDeviceID = errors.New("token has no device_id claim")
	// ErrTokenSegments is returned for tokens that are not three dot-separated segments.
	ErrTokenSegments = errors.New("token must have three segments")
)

// payloadParser tolerates padded payloads; only the middle segment is decoded.
var payloadParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DeviceIDFromToken reads the device_id claim from the token payload. Header
// and signature are not inspected: the backend is the only party holding the
// key and the client only needs the binding.
func DeviceIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: got %d", ErrTokenSegments, len(parts))
	}
	raw, err := payloadParser.DecodeSegment(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode token payload: %w", err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return "", fmt.Errorf("parse token payload: %w", err)
	}
	id, ok := claims[claimDeviceID].(string)
	if !ok || id == "" {
		return "", ErrNoDeviceID
	}
	return id, nil
}
