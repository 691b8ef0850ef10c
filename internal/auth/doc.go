// Package auth provides authentication and authorization for the API.
//
// It supports two authentication modes:
//   - "none": No authentication required (default); every route is open
//   - "jwt": Users register and log in, then send "Authorization: Bearer <token>"
//
// # Configuration
//
// Set AUTH_MODE environment variable to select the mode:
//
//	AUTH_MODE=none   # Default, no auth required
//	AUTH_MODE=jwt    # Bearer tokens issued by POST /auth/login
//
// For jwt mode, additional configuration:
//
//	AUTH_JWT_SECRET=<random-string>     # Auto-generated if empty (tokens die on restart)
//	AUTH_TOKEN_EXPIRY=30m               # Access token lifetime
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_LOGIN_RATE_PER_MINUTE=5        # Login attempts per client IP
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService, err := auth.NewService(userRepo, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//	readingList.Use(authMiddleware.RequireAuth(), authMiddleware.RequireOwner("user_id"))
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)  // Returns 0 in "none" mode
package auth
