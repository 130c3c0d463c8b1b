package payments

import (
	"database/sql"
	"time"
)

// Record is the persisted trace of a payment attempt. The email_sent flag
// is the dedup guard for plan-email dispatch.
type Record struct {
	ID           int       `json:"id"`
	ExternalID   string    `json:"external_id"`
	SessionID    string    `json:"session_id"`
	Mode         string    `json:"mode"` // pix | checkout
	Amount       float64   `json:"amount"`
	PayerEmail   string    `json:"payer_email"`
	PayerName    string    `json:"payer_name"`
	Status       string    `json:"status"`
	SearchParams string    `json:"-"`
	EmailSent    bool      `json:"email_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(rec *Record) error {
	if r == nil || r.db == nil {
		return nil
	}
	res, err := r.db.Exec(`INSERT INTO payments (external_id, session_id, mode, amount, payer_email, payer_name, status, search_params) VALUES (?,?,?,?,?,?,?,?)`,
		rec.ExternalID, rec.SessionID, rec.Mode, rec.Amount, rec.PayerEmail, rec.PayerName, rec.Status, rec.SearchParams)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = int(id)
	return nil
}

func (r *Repository) UpdateStatus(externalID, status string) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.Exec(`UPDATE payments SET status=? WHERE external_id=?`, status, externalID)
	return err
}

func (r *Repository) GetByExternalID(externalID string) (*Record, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRow(`SELECT id, external_id, session_id, mode, amount, payer_email, payer_name, status, COALESCE(search_params,''), email_sent, created_at FROM payments WHERE external_id=? LIMIT 1`, externalID)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.ExternalID, &rec.SessionID, &rec.Mode, &rec.Amount, &rec.PayerEmail, &rec.PayerName, &rec.Status, &rec.SearchParams, &rec.EmailSent, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// MarkEmailSent flips the dedup flag. Returns true only for the call that
// actually flipped it, so repeated approvals dispatch at most one email.
func (r *Repository) MarkEmailSent(externalID string) (bool, error) {
	if r == nil || r.db == nil {
		return true, nil
	}
	res, err := r.db.Exec(`UPDATE payments SET email_sent=1 WHERE external_id=? AND email_sent=0`, externalID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
