package main

import (
	"encoding/json"
	"log"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/models"
	"launchcontrol/pkg/config"
	"launchcontrol/schedule"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	// Periodic full rebuild repairs aggregates that drifted from the
	// trade records.
	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() {
		schedule.RecomputeTokenStats(config.DB)
	}); err != nil {
		logrus.Fatal("Failed to register stats job: ", err)
	}
	c.Start()
	defer c.Stop()

	// Create consumer for the trade event queue
	msgConsumer, err := config.NewConsumer(config.TradeQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Stats worker started, waiting for trade events...")

	// Start consuming messages
	err = msgConsumer.Consume(func(msg []byte) error {
		var event engine.TradeEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			logrus.Errorf("Failed to unmarshal trade event: %v", err)
			return err
		}

		logrus.WithFields(logrus.Fields{
			"token_id":       event.TokenID,
			"transaction_id": event.TransactionID,
			"kind":           event.Kind,
			"sol_amount":     event.SolAmount,
			"token_amount":   event.TokenAmount,
		}).Info("Trade event received")

		return applyTradeEvent(event)
	})

	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}

// applyTradeEvent folds one committed trade into the token's aggregate row.
// The upsert keeps the counters additive under redelivery of distinct
// events; the periodic rebuild corrects any double counting from requeues.
func applyTradeEvent(event engine.TradeEvent) error {
	var buyVolume, sellVolume uint64
	switch event.Kind {
	case models.TradeKindBuy:
		buyVolume = event.SolAmount
	case models.TradeKindSell:
		sellVolume = event.SolAmount
	case models.TradeKindLaunch:
		// Launch moves reserves but is not trading volume.
	default:
		logrus.Warnf("Unknown trade kind %q for token %d, skipping", event.Kind, event.TokenID)
		return nil
	}

	stat := models.TokenStat{
		TokenID:       event.TokenID,
		TradeCount:    1,
		BuyVolumeSol:  buyVolume,
		SellVolumeSol: sellVolume,
		LastPrice:     event.Price,
		LastTradeAt:   event.Timestamp,
	}

	return config.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"trade_count":     clause.Expr{SQL: "token_stats.trade_count + 1"},
			"buy_volume_sol":  clause.Expr{SQL: "token_stats.buy_volume_sol + ?", Vars: []interface{}{buyVolume}},
			"sell_volume_sol": clause.Expr{SQL: "token_stats.sell_volume_sol + ?", Vars: []interface{}{sellVolume}},
			"last_price":      event.Price,
			"last_trade_at":   event.Timestamp,
		}),
	}).Create(&stat).Error
}
