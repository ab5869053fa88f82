package memory

import (
	"sort"
	"time"

	"github.com/sendesk/sendesk/internal/models"
)

type contactRepository struct {
	store *Store
}

// List applies the same single-dimension filter rule as the Postgres
// backend: search wins over label, label over location, location over date
// range. Results come back newest first.
func (r *contactRepository) List(accountID int64, filter *models.ContactFilter) ([]*models.Contact, error) {
	match := contactPredicate(filter)

	contacts := []*models.Contact{}
	for _, contact := range r.store.contacts {
		if contact.AccountID != accountID {
			continue
		}
		if match != nil && !match(contact) {
			continue
		}
		contacts = append(contacts, copyContact(contact))
	}

	sortNewestFirst(contacts, func(c *models.Contact) (time.Time, int64) { return c.CreatedAt, c.ID })
	return contacts, nil
}

func contactPredicate(filter *models.ContactFilter) func(*models.Contact) bool {
	if filter == nil {
		return nil
	}

	switch {
	case filter.Search != "":
		return func(c *models.Contact) bool {
			return models.ContainsFold(c.Name, filter.Search) || models.ContainsFold(c.Mobile, filter.Search)
		}
	case filter.Label != "":
		return func(c *models.Contact) bool {
			return c.Label.Valid && c.Label.String == filter.Label
		}
	case filter.Location != "":
		return func(c *models.Contact) bool {
			return c.Location.Valid && models.ContainsFold(c.Location.String, filter.Location)
		}
	case filter.DateRange != "":
		start := models.DateRangeStart(filter.DateRange, time.Now())
		return func(c *models.Contact) bool {
			return !c.CreatedAt.Before(start)
		}
	default:
		return nil
	}
}

func (r *contactRepository) GetByID(id int64) (*models.Contact, error) {
	contact, ok := r.store.contacts[id]
	if !ok {
		return nil, nil
	}
	return copyContact(contact), nil
}

func (r *contactRepository) GetByMobile(mobile string, accountID int64) (*models.Contact, error) {
	for _, contact := range r.store.contacts {
		if contact.Mobile == mobile && contact.AccountID == accountID {
			return copyContact(contact), nil
		}
	}
	return nil, nil
}

func (r *contactRepository) Create(params models.CreateContactParams) (*models.Contact, error) {
	contact := &models.Contact{
		ID:        r.store.nextContactID(),
		AccountID: params.AccountID,
		Name:      params.Name,
		Mobile:    params.Mobile,
		Label:     models.NullStringFrom(params.Label),
		Location:  models.NullStringFrom(params.Location),
		CreatedAt: time.Now(),
	}

	r.store.contacts[contact.ID] = contact
	return copyContact(contact), nil
}

func (r *contactRepository) Update(id int64, params models.UpdateContactParams) (*models.Contact, error) {
	contact, ok := r.store.contacts[id]
	if !ok {
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

	return copyContact(contact), nil
}

func (r *contactRepository) Delete(id int64) (bool, error) {
	if _, ok := r.store.contacts[id]; !ok {
		return false, nil
	}
	delete(r.store.contacts, id)
	return true, nil
}

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

func copyContact(c *models.Contact) *models.Contact {
	cp := *c
	return &cp
}

// sortNewestFirst orders by creation time descending, breaking ties on id
// so listings stay deterministic across backends.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, int64)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}
