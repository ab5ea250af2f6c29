package util

import (
	"fmt"
	"math/rand"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomInt generates a random integer between min and max
func RandomInt(min, max int64) int64 {
	return min + rand.Int63n(max-min+1)
}

// RandomFloat generates a random float between min and max
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder

	for i := 0; i < n; i++ {
		c := alphabet[rand.Intn(len(alphabet))]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomRegion picks a random Kenyan county name
func RandomRegion() string {
	regions := []string{"Nairobi", "Kiambu", "Machakos", "Mombasa", "Nakuru", "Kisumu"}
	return regions[rand.Intn(len(regions))]
}

// RandomAPIKey generates a random API key for tests
func RandomAPIKey() string {
	return fmt.Sprintf("sk_%s", RandomString(24))
}
