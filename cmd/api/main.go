package main

import (
	"errors"
	"log"
	"os"

	logrus "github.com/sirupsen/logrus"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/handlers"
	"launchcontrol/internal/routes"
	"launchcontrol/pkg/chain"
	"launchcontrol/pkg/config"
)

func main() {
	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ (optional, will log warning if not configured)
	var publisher *config.Publisher
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		var err error
		publisher, err = config.NewPublisher()
		if err != nil {
			log.Fatal("Failed to create publisher:", err)
		}
		defer publisher.Close()
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, skipping initialization")
	}

	// The in-process ledger backs balances and mint bookkeeping.
	ledger := chain.NewMemoryLedger()

	feed := handlers.NewTradeFeed()
	notify := func(event engine.TradeEvent) {
		feed.Publish(event)
		if publisher != nil {
			if err := publisher.Publish(config.TradeQueue, event); err != nil {
				logrus.Errorf("Failed to publish trade event: %v", err)
			}
		}
	}

	eng := engine.New(config.DB, ledger, engine.WithNotifier(notify))
	handlers.Init(eng)

	// Establish the operator identity and initialize the platform on first
	// boot. A keystore password must be provided.
	keystoreDir := os.Getenv("KEYSTORE_DIR")
	if keystoreDir == "" {
		keystoreDir = "keystore"
	}
	keystorePassword := os.Getenv("KEYSTORE_PASSWORD")
	if keystorePassword == "" {
		log.Fatal("KEYSTORE_PASSWORD is required")
	}

	ks := chain.NewOperatorKeystore(keystoreDir)
	operator, err := ks.LoadOrCreate("operator", keystorePassword)
	if err != nil {
		log.Fatal("Failed to load operator key:", err)
	}
	log.Println("Operator address:", operator)

	if _, err := eng.Initialize(operator); err != nil {
		if !errors.Is(err, engine.ErrAlreadyInitialized) {
			log.Fatal("Failed to initialize platform:", err)
		}
	} else {
		log.Println("Platform initialized with operator as authority")
	}

	// Set up router
	r := routes.SetupRouter(feed)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
