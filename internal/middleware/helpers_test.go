// AngelaMos | 2026
// helpers_test.go

package middleware

import "github.com/carterperez-dev/talentgrid/internal/config"

func corsConfigForTest() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}
