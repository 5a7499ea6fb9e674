package users

import (
	"context"
	"net/http"

	"github.com/rahle-app/rahle/internal/api"
)

type contextKey string

const deviceIDKey contextKey = "device_id"

// DeviceMiddleware extracts the X-Device-ID header and stores it in the
// request context. Requests without a device identity are rejected before
// reaching the handler.
func DeviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get("X-Device-ID")
		if deviceID == "" {
			api.HandleError(w, api.ErrDeviceRequired)
			return
		}

		ctx := context.WithValue(r.Context(), deviceIDKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDeviceID returns the device ID from the context, or "" if absent.
func GetDeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}
