package utils

import (
	"time"

	"project/backend/config"
	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWTToken mirrors the token shape issued by the auth service.
// The backend itself only consumes tokens; this is used by tests and
// local tooling.
func GenerateJWTToken(user models.User, cfg *config.Config) (string, error) {
	courses := make([]uint, len(user.CourseIDs))
	copy(courses, user.CourseIDs)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    user.Role,
		"courses": courses,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractUserFromToken parses the Authorization header into the
// authenticated principal: identity plus the owned course IDs.
func ExtractUserFromToken(c *fiber.Ctx, cfg *config.Config) (models.User, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return models.User{}, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil {
		return models.User{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.User{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return models.User{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	user := models.User{
		ID: uint(userIDFloat),
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		user.Role = role
	}
	if courses, ok := claims["courses"].([]interface{}); ok {
		for _, course := range courses {
			if id, ok := course.(float64); ok {
				user.CourseIDs = append(user.CourseIDs, uint(id))
			}
		}
	}

	return user, nil
}
