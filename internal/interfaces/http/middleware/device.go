// internal/interfaces/http/middleware/device.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const deviceContextKey = "device_id"

// DeviceCookieName scopes all persisted selections to one logical
// device/browser, the way localStorage would. Every session on the
// device shares the same cart and wishlist collections.
const DeviceCookieName = "device_id"

// DeviceID resolves the device scope for the request: the X-Device-ID
// header wins, then the device cookie; a brand-new device gets a
// generated id set as a cookie.
func DeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader("X-Device-ID")

		if deviceID == "" {
			if cookie, err := c.Cookie(DeviceCookieName); err == nil {
				deviceID = cookie
			}
		}

		if deviceID == "" {
			deviceID = uuid.NewString()
			// One year; the device scope should outlive sessions
			c.SetCookie(DeviceCookieName, deviceID, 365*24*3600, "/", "", false, true)
		}

		c.Set(deviceContextKey, deviceID)
		c.Next()
	}
}

// GetDeviceIDFromContext extracts the device scope id from gin context
func GetDeviceIDFromContext(c *gin.Context) string {
	return c.GetString(deviceContextKey)
}
