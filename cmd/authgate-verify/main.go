package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nimbusnote/authgate"
)

func main() {
	envFile := flag.String("env", ".env", "Optional path to .env file")

	// Flags default to the environment so the tool works from a project .env
	// without any arguments beyond the token.
	var (
		secret      string
		issuer      string
		audience    string
		upstreamURL string
		serviceKey  string
		token       string
	)
	flag.StringVar(&secret, "secret", "", "HMAC signing secret (env AUTHGATE_SECRET)")
	flag.StringVar(&issuer, "issuer", "", "Expected issuer (env AUTHGATE_ISSUER)")
	flag.StringVar(&audience, "audience", "", "Expected audience (env AUTHGATE_AUDIENCE)")
	flag.StringVar(&upstreamURL, "upstream-url", "", "Auth provider base URL for user lookup (env AUTHGATE_UPSTREAM_URL)")
	flag.StringVar(&serviceKey, "service-key", "", "Auth provider service key (env AUTHGATE_SERVICE_KEY)")
	flag.StringVar(&token, "token", "", "JWT to verify (env AUTHGATE_TOKEN)")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout for the upstream lookup")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: load %s: %v", *envFile, err)
	}

	applyEnvDefault(&secret, "AUTHGATE_SECRET")
	applyEnvDefault(&issuer, "AUTHGATE_ISSUER")
	applyEnvDefault(&audience, "AUTHGATE_AUDIENCE")
	applyEnvDefault(&upstreamURL, "AUTHGATE_UPSTREAM_URL")
	applyEnvDefault(&serviceKey, "AUTHGATE_SERVICE_KEY")
	applyEnvDefault(&token, "AUTHGATE_TOKEN")

	if secret == "" {
		flag.Usage()
		log.Fatal("secret is required")
	}
	if token == "" {
		flag.Usage()
		log.Fatal("token is required")
	}

	verifier := authgate.NewVerifier(authgate.Config{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	claims, err := verifier.Verify(ctx, token)
	if err != nil {
		log.Fatalf("verification failed: %v", err)
	}

	if upstreamURL != "" {
		users, err := authgate.NewUserService(authgate.UpstreamConfig{
			BaseURL:     upstreamURL,
			ServiceKey:  serviceKey,
			HTTPTimeout: *timeout,
		})
		if err != nil {
			log.Fatalf("create user service: %v", err)
		}
		if err := users.Check(ctx, token, claims.Subject); err != nil {
			log.Fatalf("upstream check failed: %v", err)
		}
		log.Println("upstream user lookup confirmed the token")
	}

	printClaims(claims)
}

func applyEnvDefault(value *string, key string) {
	if *value == "" {
		*value = os.Getenv(key)
	}
}

func printClaims(claims *authgate.Claims) {
	fmt.Println("== Token Verified ==")
	fmt.Printf("subject    : %s\n", claims.Subject)
	if claims.Email != "" {
		fmt.Printf("email      : %s\n", claims.Email)
	}
	if claims.Role != "" {
		fmt.Printf("role       : %s\n", claims.Role)
	}
	if claims.Issuer != "" {
		fmt.Printf("issuer     : %s\n", claims.Issuer)
	}
	if len(claims.Audience) > 0 {
		fmt.Printf("audience   : %v\n", claims.Audience)
	}
	if !claims.IssuedAt.IsZero() {
		fmt.Printf("issued_at  : %s\n", claims.IssuedAt.Format(time.RFC3339))
	}
	if !claims.ExpiresAt.IsZero() {
		fmt.Printf("expires_at : %s\n", claims.ExpiresAt.Format(time.RFC3339))
	}
	if len(claims.AppMetadata) > 0 {
		fmt.Println("app_metadata:")
		for k, v := range claims.AppMetadata {
			fmt.Printf("  %s: %v\n", k, v)
		}
	}
}
