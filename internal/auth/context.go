package auth

import "github.com/gin-gonic/gin"

// IdentityKey is where the per-request identity middleware stashes the
// resolved snapshot in the gin context.
const IdentityKey = "kraft.identity"

// Current returns the resolved identity of the request, or nil for anonymous.
func Current(c *gin.Context) *Snapshot {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	snap, _ := v.(*Snapshot)
	return snap
}

// CurrentEmail returns the resolved identity's email, or "" for anonymous.
func CurrentEmail(c *gin.Context) string {
	if snap := Current(c); snap != nil {
		return snap.Email
	}
	return ""
}
