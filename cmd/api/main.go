package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dor-app/dor-backend-go/internal/config"
	appHTTP "github.com/dor-app/dor-backend-go/internal/handler/http"
	"github.com/dor-app/dor-backend-go/internal/pkg/branchcache"
	"github.com/dor-app/dor-backend-go/internal/pkg/cron"
	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/dor-app/dor-backend-go/internal/pkg/jwt"
	"github.com/dor-app/dor-backend-go/internal/pkg/oauth"
	"github.com/dor-app/dor-backend-go/internal/repository/postgresql"
	attendanceService "github.com/dor-app/dor-backend-go/internal/service/attendance"
	authService "github.com/dor-app/dor-backend-go/internal/service/auth"
	branchService "github.com/dor-app/dor-backend-go/internal/service/branch"
	userService "github.com/dor-app/dor-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	branchCache, err := branchcache.New()
	if err != nil {
		log.Fatal("Error creating branch cache: ", err)
	}
	defer branchCache.Close()

	userRepo := postgresql.NewUserRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleSvc := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	authSvc := authService.NewAuthService(db, userRepo, jwtSvc, jwtRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, branchRepo, branchCache)
	branchSvc := branchService.NewBranchService(branchRepo, branchCache)
	userSvc := userService.NewUserService(userRepo, branchRepo)

	scheduler := cron.NewScheduler()
	cron.NewTokenJobs(jwtRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(jwtSvc, authSvc, googleSvc, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	branchHandler := appHTTP.NewBranchHandler(branchSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)

	router := appHTTP.NewRouter(
		jwtSvc,
		authHandler,
		attendanceHandler,
		branchHandler,
		userHandler,
		cfg.App.Env,
		cfg.App.FrontendURL,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
