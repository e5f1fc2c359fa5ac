package main

import (
	"fmt"
	"os"

	"legit-poll/authentication"
	"legit-poll/controllers"
	"legit-poll/middleware"
)

func handleRequests() {
	router.Use(middleware.CORSMiddleware())

	// auth-related
	router.POST("/auth/:provider", controllers.Login)
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)
	router.POST("/refresh", controllers.Refresh) // do not check whether the AT is still valid (no middleware)
	router.GET("/session", controllers.Session)

	// polls
	// GET has no BODY (Go/Gin & Postman would support it, browsers don't) - hence parameters
	router.GET("/polls", controllers.ListPolls)
	router.GET("/polls/trending", controllers.TrendingPolls)
	router.GET("/polls/:id", controllers.GetPoll)
	router.POST("/polls", authentication.TokenAuthMiddleware(), controllers.AddPoll)

	// votes
	router.GET("/polls/:id/vote", authentication.TokenAuthMiddleware(), controllers.GetUserVote)
	router.POST("/polls/:id/vote", authentication.TokenAuthMiddleware(), controllers.CastVote)

	// monitoring
	router.GET("/monitor/requests", authentication.TokenAuthMiddleware(), controllers.CountRequests)
	router.GET("/monitor/requests/dump", authentication.TokenAuthMiddleware(), controllers.DumpRequests)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV must not set"))
	}
}
