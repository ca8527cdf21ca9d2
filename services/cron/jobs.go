package cron

import (
	"context"
	"log"
	"time"

	"github.com/edumart/api/model"
	"github.com/edumart/api/utils/auth"
)

// settlementGracePeriod is how long a settlement may sit in a non-completed
// step before the sweep considers it stuck. Keeps the sweep from racing an
// in-flight request.
const settlementGracePeriod = 2 * time.Minute

// ReconcileSettlements closes out settlement attempts whose log never reached
// the completed step. The order, purchase counter and earnings credit commit
// in one transaction, so a stuck log row means one of two things: the
// transaction rolled back (no order exists, the attempt is abandoned and the
// caller already saw the failure), or the transaction committed and only the
// log update afterwards was lost (the order exists, the attempt is marked
// completed). Either way the log row records what happened for audit.
func (m *CronManager) ReconcileSettlements() {
	cutoff := time.Now().Add(-settlementGracePeriod)

	var stuck []model.SettlementLog
	err := m.db.
		Where("step <> ? AND updated_at < ?", model.SettlementStepCompleted, cutoff).
		Limit(100).
		Find(&stuck).Error
	if err != nil {
		log.Printf("reconciliation: failed to load stuck settlements: %v", err)
		return
	}

	if len(stuck) == 0 {
		return
	}

	log.Printf("reconciliation: inspecting %d stuck settlements", len(stuck))

	for i := range stuck {
		if err := m.reconcileOne(&stuck[i]); err != nil {
			log.Printf("reconciliation: settlement %s not resolved: %v", stuck[i].Key, err)
		}
	}
}

func (m *CronManager) reconcileOne(settlement *model.SettlementLog) error {
	if settlement.OrderID == 0 {
		// Failed before an order ID was even allocated; nothing durable exists.
		settlement.Step = model.SettlementStepCompleted
		settlement.Error = appendNote(settlement.Error, "abandoned before order creation")
		return m.db.Save(settlement).Error
	}

	var count int64
	if err := m.db.Model(&model.Order{}).
		Where("order_id = ?", settlement.OrderID).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		// The settlement transaction rolled back in full. The purchase
		// counter and earnings credit rolled back with the order, so there is
		// nothing to repair. Record the outcome and stop revisiting.
		settlement.Step = model.SettlementStepCompleted
		settlement.Error = appendNote(settlement.Error, "transaction rolled back; no writes applied")
		return m.db.Save(settlement).Error
	}

	// The order committed, which means the counter and credit committed in
	// the same transaction; only the follow-up log update was lost.
	settlement.Step = model.SettlementStepCompleted
	settlement.Error = appendNote(settlement.Error, "verified committed by reconciliation")
	return m.db.Save(settlement).Error
}

// CleanupExpiredTokens purges expired entries from the JWT blacklist
func (m *CronManager) CleanupExpiredTokens() {
	blacklist := auth.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(context.Background()); err != nil {
		log.Printf("cleanup: failed to purge expired blacklist tokens: %v", err)
		return
	}
	log.Println("cleanup: purged expired blacklist tokens")
}

// CleanupOldNotifications deletes read notifications older than 90 days
func (m *CronManager) CleanupOldNotifications() {
	cutoff := time.Now().AddDate(0, 0, -90)

	result := m.db.
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	if result.Error != nil {
		log.Printf("cleanup: failed to purge old notifications: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("cleanup: purged %d old notifications", result.RowsAffected)
	}
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
