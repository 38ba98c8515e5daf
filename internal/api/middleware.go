package api

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constant for the context key
const ContextActorKey = "actor"

// jwtClaims mirrors the payload written by authService.generateJWT.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication. It
// resolves the token into a domain.Actor for downstream handlers.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}
		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		actorID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
			return
		}

		c.Set(ContextActorKey, domain.Actor{ID: actorID, Role: claims.Role})
		c.Next()
	}
}

// RoleMiddleware checks if the actor has one of the required roles.
// Must run AFTER AuthMiddleware. Admins pass every gate.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := getActorFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Actor not found in context")
			return
		}
		if actor.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' does not have permission", actor.Role))
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func getActorFromContext(c *gin.Context) (domain.Actor, error) {
	raw, exists := c.Get(ContextActorKey)
	if !exists {
		return domain.Actor{}, errors.New("actor not found in context")
	}
	actor, ok := raw.(domain.Actor)
	if !ok {
		return domain.Actor{}, errors.New("invalid actor type in context")
	}
	return actor, nil
}

// respondServiceError maps the service/domain failure taxonomy onto
// HTTP statuses. Mutation failures always mean a clean rollback, so no
// partial-success responses exist.
func respondServiceError(c *gin.Context, err error) {
	var capacityErr *domain.CapacityError
	var belowErr *domain.BelowCountError
	var invalidErr *domain.InvalidAssignmentError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrWeekNotFound),
		errors.Is(err, service.ErrDayNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrLogNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &capacityErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   capacityErr.Error(),
			"current": capacityErr.Current,
			"limit":   capacityErr.Limit,
		})
	case errors.As(err, &belowErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     belowErr.Error(),
			"requested": belowErr.Requested,
			"current":   belowErr.Current,
		})
	case errors.Is(err, domain.ErrStructuralMismatch):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &invalidErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": invalidErr.Error(),
			"field": invalidErr.Field,
		})
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrExerciseNameTaken):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// parseObjectIDParam reads one hex object id from the route params.
func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}
