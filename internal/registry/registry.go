package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

// ErrNotFound indica scan_id desconhecido numa consulta.
var ErrNotFound = errors.New("scan não encontrado")

// Store é o dono exclusivo dos ScanRecords. O orquestrador nunca segura um
// ponteiro para o registro: toda mutação passa por Update, que serializa
// escritas por trás do mutex.
type Store interface {
	Create(rec model.ScanRecord) error
	Get(id string) (model.ScanRecord, error)
	List() []model.ScanRecord
	Update(id string, fn func(rec *model.ScanRecord)) error
}

// MemoryStore é o registry em memória usado pelo servidor (e pelos testes).
type MemoryStore struct {
	mu    sync.RWMutex
	scans map[string]*model.ScanRecord
	order []string // ids na ordem de criação
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scans: make(map[string]*model.ScanRecord),
	}
}

func (s *MemoryStore) Create(rec model.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scans[rec.ID]; ok {
		return fmt.Errorf("scan '%s' já registrado", rec.ID)
	}
	cp := rec
	s.scans[rec.ID] = &cp
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *MemoryStore) Get(id string) (model.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.scans[id]
	if !ok {
		return model.ScanRecord{}, ErrNotFound
	}
	return *rec, nil
}

// List retorna cópias dos registros na ordem de criação.
func (s *MemoryStore) List() []model.ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ScanRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.scans[id])
	}
	return out
}

func (s *MemoryStore) Update(id string, fn func(rec *model.ScanRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.scans[id]
	if !ok {
		return ErrNotFound
	}
	fn(rec)
	return nil
}
