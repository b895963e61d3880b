package requestdata

import (
	"context"

	"github.com/yungbote/gigpost-backend/internal/types"
)

type contextKey struct{}

var requestDataKey = contextKey{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData is the authenticated caller attached to every inbound
// command: the identity the authorization gate compares against resource
// owners, plus the caller's role set.
type RequestData struct {
	UserReference string
	Username      string
	DeviceID      string
	Roles         []types.Role
}

func (rd *RequestData) HasRole(roles ...types.Role) bool {
	if rd == nil {
		return false
	}
	for _, want := range roles {
		for _, have := range rd.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
