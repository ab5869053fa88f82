package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sendesk/sendesk/internal/models"
)

const contactColumns = `id, account_id, name, mobile, label, location, created_at`

type contactRepository struct {
	db *sqlx.DB
}

// List returns contacts for the account, newest first. At most one filter
// dimension applies: search wins over label, label over location, location
// over date range.
func (r *contactRepository) List(accountID int64, filter *models.ContactFilter) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE account_id = $1`
	args := []interface{}{accountID}

	if filter != nil {
		switch {
		case filter.Search != "":
			query += ` AND (name ILIKE $2 OR mobile ILIKE $2)`
			args = append(args, "%"+filter.Search+"%")
		case filter.Label != "":
			query += ` AND label = $2`
			args = append(args, filter.Label)
		case filter.Location != "":
			query += ` AND location ILIKE $2`
			args = append(args, "%"+filter.Location+"%")
		case filter.DateRange != "":
			query += ` AND created_at >= $2`
			args = append(args, models.DateRangeStart(filter.DateRange, time.Now()))
		}
	}

	query += ` ORDER BY created_at DESC, id DESC`

	contacts := []*models.Contact{}
	if err := r.db.Select(&contacts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (r *contactRepository) GetByID(id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	var contact models.Contact
	err := r.db.Get(&contact, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

func (r *contactRepository) GetByMobile(mobile string, accountID int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE mobile = $1 AND account_id = $2`

	var contact models.Contact
	err := r.db.Get(&contact, query, mobile, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact by mobile: %w", err)
	}

	return &contact, nil
}

func (r *contactRepository) Create(params models.CreateContactParams) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (account_id, name, mobile, label, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + contactColumns

	var contact models.Contact
	err := r.db.Get(&contact, query,
		params.AccountID,
		params.Name,
		params.Mobile,
		models.NullStringFrom(params.Label),
		models.NullStringFrom(params.Location),
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return &contact, nil
}

// Update reads the row, applies the shallow merge in Go and writes the
// result back, keeping the merge rules identical to the in-memory backend.
func (r *contactRepository) Update(id int64, params models.UpdateContactParams) (*models.Contact, error) {
	contact, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}

	if params.Name != nil {
		contact.Name = *params.Name
	}
	if params.Mobile != nil {
		contact.Mobile = *params.Mobile
	}
	if params.Label != nil {
		contact.Label = models.NullStringFrom(params.Label)
	}
	if params.Location != nil {
		contact.Location = models.NullStringFrom(params.Location)
	}

	query := `
		UPDATE contacts
		SET name = $2, mobile = $3, label = $4, location = $5
		WHERE id = $1
	`

	if _, err := r.db.Exec(query, id, contact.Name, contact.Mobile, contact.Label, contact.Location); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

func (r *contactRepository) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	return rows > 0, nil
}

// Import processes records one at a time. Each duplicate check queries the
// rows committed so far, so duplicates inside the batch are caught once the
// first copy lands. Partial failure leaves earlier inserts committed.
func (r *contactRepository) Import(records []models.CreateContactParams, dedupeByMobile bool) (*models.ImportResult, error) {
	result := &models.ImportResult{}

	for _, record := range records {
		if dedupeByMobile {
			existing, err := r.GetByMobile(record.Mobile, record.AccountID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				result.Duplicates++
				continue
			}
		}

		if _, err := r.Create(record); err != nil {
			return nil, err
		}
		result.Imported++
	}

	return result, nil
}
