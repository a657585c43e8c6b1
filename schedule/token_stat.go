// Package schedule holds periodic maintenance jobs run by the worker.
package schedule

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"launchcontrol/internal/models"
)

// tokenAggregate is the per-token rollup produced by the stats query.
type tokenAggregate struct {
	TokenID       uint64
	TradeCount    uint64
	BuyVolumeSol  uint64
	SellVolumeSol uint64
}

// RecomputeTokenStats rebuilds the per-token trade aggregates from the trade
// records. The incremental path is the queue consumer; this job repairs any
// aggregates that drifted from the records, for example after a worker
// restart dropped in-flight messages.
func RecomputeTokenStats(db *gorm.DB) {
	started := time.Now()

	var aggregates []tokenAggregate
	err := db.Model(&models.TradeRecord{}).
		Select(
			"token_id",
			"COUNT(*) AS trade_count",
			"COALESCE(SUM(CASE WHEN kind = ? THEN sol_amount ELSE 0 END), 0) AS buy_volume_sol",
			"COALESCE(SUM(CASE WHEN kind = ? THEN sol_amount ELSE 0 END), 0) AS sell_volume_sol",
			models.TradeKindBuy, models.TradeKindSell,
		).
		Group("token_id").
		Scan(&aggregates).Error
	if err != nil {
		log.Errorf("Failed to aggregate trade records: %v", err)
		return
	}

	updated := 0
	for _, agg := range aggregates {
		var last models.TradeRecord
		err := db.Where("token_id = ?", agg.TokenID).
			Order("transaction_id desc").
			First(&last).Error
		if err != nil {
			log.Errorf("Failed to load last trade for token %d: %v", agg.TokenID, err)
			continue
		}

		stat := models.TokenStat{
			TokenID:       agg.TokenID,
			TradeCount:    agg.TradeCount,
			BuyVolumeSol:  agg.BuyVolumeSol,
			SellVolumeSol: agg.SellVolumeSol,
			LastPrice:     last.Price,
			LastTradeAt:   last.Timestamp,
		}
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"trade_count", "buy_volume_sol", "sell_volume_sol",
				"last_price", "last_trade_at",
			}),
		}).Create(&stat).Error
		if err != nil {
			log.Errorf("Failed to upsert token stat for token %d: %v", agg.TokenID, err)
			continue
		}
		updated++
	}

	log.Infof("Token stats recomputed: %d tokens in %v", updated, time.Since(started))
}
