package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
	routes "github.com/phillip/edubridge-go/routes"
)

// Environment provides an abstraction around the execution environment
type Environment struct {
	Stderr io.Writer
	Stdout io.Writer
}

type ServeCmd struct {
	Port string `help:"listen port, overrides PORT."`
}

func (cmd *ServeCmd) Run(env *Environment, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	routes.SetupRoutes(r, cfg)

	port := cfg.Port
	if cmd.Port != "" {
		port = cmd.Port
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %s\n", err)
		}
	}()
	log.Printf("EduBridge API running on :%v (store=%s)\n", port, cfg.StoreDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited gracefully")
	return nil
}

type ClearDBCmd struct {
	Yes bool `short:"y" help:"do not ask for confirmation."`
}

func (cmd *ClearDBCmd) Run(env *Environment, cfg *config.Config) error {
	if !cmd.Yes {
		fmt.Fprintf(env.Stdout, "This deletes every document in %q. Type 'yes' to continue: ", cfg.DBName)
		var answer string
		if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil || answer != "yes" {
			fmt.Fprintln(env.Stdout, "Aborted.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cfg.Store.Clear(ctx); err != nil {
		return fmt.Errorf("clear database: %w", err)
	}
	fmt.Fprintln(env.Stdout, "Database cleared.")
	return nil
}

type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Serves the EduBridge HTTP API."`
	Seed    SeedCmd    `cmd:"" help:"Loads demo users, campaigns, donations and a mentorship."`
	ClearDB ClearDBCmd `cmd:"" name:"clear-db" help:"Deletes every document in the database."`
}

func Run(env Environment) int {
	app := CLI{}

	cntx := kong.Parse(&app,
		kong.Name("edubridge"),
		kong.Description("EduBridge donation and mentorship API"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.MongoStartWait+5*time.Second)
	st, err := config.OpenStore(ctx, settings)
	cancel()
	if err != nil {
		fmt.Fprintf(env.Stderr, "open store: %v\n", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	cfg, err := config.New(settings, st)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	cntx.Bind(cfg)

	if err := cntx.Run(&env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	return 0
}
