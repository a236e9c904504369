// services/session_service.go
package services

import (
	"errors"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"salonpos-backend/billing"
	"salonpos-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillSession wraps one user's in-progress bill. All access goes through
// Do, which serializes mutations; totals therefore always reflect the
// latest state before any checkout validation reads them.
type BillSession struct {
	mu       sync.Mutex
	bill     *billing.Bill
	lastUsed time.Time
}

func (s *BillSession) Do(fn func(*billing.Bill) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.bill)
}

// SessionStore keeps one bill session per user, created lazily with the
// salon's tax rate and voucher catalog.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*BillSession
	db       *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*BillSession),
		db:       db,
	}
}

// Get returns the user's session, creating it on first use.
func (st *SessionStore) Get(userID, salonID uuid.UUID) *BillSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[userID]; ok {
		return s
	}

	s := &BillSession{
		bill:     billing.NewBill(st.salonTaxPercent(salonID), NewVoucherCatalog(st.db, salonID)),
		lastUsed: time.Now(),
	}
	st.sessions[userID] = s
	return s
}

func (st *SessionStore) salonTaxPercent(salonID uuid.UUID) decimal.Decimal {
	var salon models.Salon
	if err := st.db.First(&salon, "id = ?", salonID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to load salon %s for tax rate: %v", salonID, err)
		}
		return defaultTaxPercent()
	}
	if salon.TaxPercent.IsZero() {
		return defaultTaxPercent()
	}
	return salon.TaxPercent
}

func defaultTaxPercent() decimal.Decimal {
	if env := os.Getenv("DEFAULT_TAX_PERCENT"); env != "" {
		if d, err := decimal.NewFromString(env); err == nil {
			return d
		}
	}
	return decimal.NewFromInt(18)
}

// StartSweeper evicts sessions idle past the TTL. An abandoned cart should
// not pin a client's balances in memory overnight.
func (st *SessionStore) StartSweeper() {
	ttl := 2 * time.Hour
	if env := os.Getenv("POS_SESSION_TTL_MINUTES"); env != "" {
		if m, err := strconv.Atoi(env); err == nil && m > 0 {
			ttl = time.Duration(m) * time.Minute
		}
	}

	c := cron.New()
	c.AddFunc("@every 10m", func() { st.sweep(ttl) })
	c.Start()
	log.Println("POS session sweeper started")
}

func (st *SessionStore) sweep(ttl time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for userID, s := range st.sessions {
		s.mu.Lock()
		idle := time.Since(s.lastUsed)
		s.mu.Unlock()
		if idle > ttl {
			delete(st.sessions, userID)
			log.Printf("Evicted idle POS session for user %s", userID)
		}
	}
}
