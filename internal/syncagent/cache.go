package syncagent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/osse101/posrelay/internal/domain"
)

// CachedCatalog is the last catalog a register saw, with its version
type CachedCatalog struct {
	StoreID    string         `json:"storeId,omitempty"`
	Categories domain.Catalog `json:"categories"`
	Version    int64          `json:"version"`
}

// cachedTicket wraps a closed ticket with its delivery state
type cachedTicket struct {
	Ticket    domain.ClosedTicket `json:"ticket"`
	Synced    bool                `json:"synced"`
	Attempts  int                 `json:"attempts,omitempty"`
	Abandoned bool                `json:"abandoned,omitempty"`
}

// Cache is the register's local store: last catalog, login session and
// closed tickets. It survives restarts so a register can keep selling
// while the server is unreachable.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens or creates the cache file at path
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketSession, BucketTickets} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the cache file
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveCatalog replaces the cached catalog
func (c *Cache) SaveCatalog(cc CachedCatalog) error {
	return c.put(BucketSession, KeyCatalog, cc)
}

// LoadCatalog returns the cached catalog, or ok=false when none was saved
func (c *Cache) LoadCatalog() (CachedCatalog, bool, error) {
	var cc CachedCatalog
	ok, err := c.get(BucketSession, KeyCatalog, &cc)
	return cc, ok, err
}

// SaveSession stores the role and token from the last login
func (c *Cache) SaveSession(role domain.Role, token string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSession))
		if err := b.Put([]byte(KeyRole), []byte(role)); err != nil {
			return err
		}
		return b.Put([]byte(KeyToken), []byte(token))
	})
}

// ClearSession forgets the stored login
func (c *Cache) ClearSession() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSession))
		if err := b.Delete([]byte(KeyRole)); err != nil {
			return err
		}
		return b.Delete([]byte(KeyToken))
	})
}

// LoadSession returns the stored role and token, empty when logged out
func (c *Cache) LoadSession() (domain.Role, string, error) {
	var role, token string
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSession))
		role = string(b.Get([]byte(KeyRole)))
		token = string(b.Get([]byte(KeyToken)))
		return nil
	})
	return domain.Role(role), token, err
}

// AddTicket stores a closed ticket as not yet delivered
func (c *Cache) AddTicket(t domain.ClosedTicket) error {
	return c.put(BucketTickets, t.ID, cachedTicket{Ticket: t})
}

// MarkSynced flags tickets the server acknowledged
func (c *Cache) MarkSynced(ids ...string) error {
	return c.updateTickets(ids, func(ct *cachedTicket) {
		ct.Synced = true
	})
}

// RecordFailure counts a rejected delivery for each ticket. Tickets that
// reach maxAttempts are abandoned: kept, but no longer pending. It returns
// the ids abandoned by this call.
func (c *Cache) RecordFailure(maxAttempts int, ids ...string) ([]string, error) {
	var abandoned []string
	err := c.updateTickets(ids, func(ct *cachedTicket) {
		if ct.Synced || ct.Abandoned {
			return
		}
		ct.Attempts++
		if ct.Attempts >= maxAttempts {
			ct.Abandoned = true
			abandoned = append(abandoned, ct.Ticket.ID)
		}
	})
	if err != nil {
		return nil, err
	}
	return abandoned, nil
}

// AbandonedTickets returns tickets the register stopped resending
func (c *Cache) AbandonedTickets() ([]domain.ClosedTicket, error) {
	return c.tickets(func(ct cachedTicket) bool { return ct.Abandoned && !ct.Synced })
}

func (c *Cache) updateTickets(ids []string, fn func(*cachedTicket)) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketTickets))
		for _, id := range ids {
			raw := b.Get([]byte(id))
			if raw == nil {
				continue
			}
			var ct cachedTicket
			if err := json.Unmarshal(raw, &ct); err != nil {
				return err
			}
			fn(&ct)
			data, err := json.Marshal(ct)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Tickets returns every cached ticket ordered by id
func (c *Cache) Tickets() ([]domain.ClosedTicket, error) {
	return c.tickets(func(cachedTicket) bool { return true })
}

// PendingTickets returns tickets the server has not acknowledged and that
// are still being resent
func (c *Cache) PendingTickets() ([]domain.ClosedTicket, error) {
	return c.tickets(func(ct cachedTicket) bool { return !ct.Synced && !ct.Abandoned })
}

func (c *Cache) tickets(keep func(cachedTicket) bool) ([]domain.ClosedTicket, error) {
	var out []domain.ClosedTicket
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketTickets)).ForEach(func(_, v []byte) error {
			var ct cachedTicket
			if err := json.Unmarshal(v, &ct); err != nil {
				return err
			}
			if keep(ct) {
				out = append(out, ct.Ticket)
			}
			return nil
		})
	})
	return out, err
}

func (c *Cache) put(bucket, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
	})
}

func (c *Cache) get(bucket, key string, v interface{}) (bool, error) {
	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(bucket)).Get([]byte(key)); data != nil {
			raw = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Join(fmt.Errorf("corrupt cache entry %s", key), err)
	}
	return true, nil
}
