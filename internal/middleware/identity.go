package middleware

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/models"
)

const (
	identityKey = "identity"
	tokenKey    = "firebase_token"
)

// Identity est l'utilisateur local résolu à partir du bearer token
type Identity struct {
	User  *models.User
	Token *auth.Token
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.User != nil && i.User.Role == models.RoleAdmin
}

// CanAccess: propriétaire de la ressource ou admin
func (i *Identity) CanAccess(ownerID primitive.ObjectID) bool {
	if i == nil || i.User == nil {
		return false
	}
	return i.User.ID == ownerID || i.IsAdmin()
}

func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
	c.Set(tokenKey, id.Token)
}

// IdentityFrom renvoie l'identité posée par AuthRequired / OptionalAuth
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok && id != nil
}

// TokenFrom renvoie le token vérifié, même sans utilisateur local (register)
func TokenFrom(c *gin.Context) (*auth.Token, bool) {
	v, ok := c.Get(tokenKey)
	if !ok {
		return nil, false
	}
	tok, ok := v.(*auth.Token)
	return tok, ok && tok != nil
}
