package state

import (
	"encoding/json"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/pkg/errors"
)

const storePrefixState byte = 1

// snapshot is the serialized form of a ContractState record.
type snapshot struct {
	ContractAddress string                             `json:"contractAddress"`
	Balances        map[string]*decimal.Big            `json:"balances"`
	Allowances      map[string]map[string]*decimal.Big `json:"allowances"`
	Storage         map[string]string                  `json:"storage"`
	TotalSupply     *decimal.Big                       `json:"totalSupply"`
	Owner           string                             `json:"owner"`
	Name            string                             `json:"name"`
	Symbol          string                             `json:"symbol"`
	Decimals        int                                `json:"decimals"`
	CreatedAt       time.Time                          `json:"createdAt"`
	LastUpdated     time.Time                          `json:"lastUpdated"`
}

// Store persists contract-state snapshots to a kvstore realm. The in-memory
// record stays authoritative during an execution; a snapshot is written
// after the execution completes.
type Store struct {
	store kvstore.KVStore
}

// NewStore creates a state store on its own kvstore realm.
func NewStore(store kvstore.KVStore) (*Store, error) {
	stateStore, err := store.WithRealm([]byte{0xC1}) // state realm
	if err != nil {
		return nil, err
	}

	return &Store{
		store: stateStore,
	}, nil
}

// Persist writes a snapshot of the record. Callers must hold the record lock.
func (ss *Store) Persist(s *ContractState) error {
	value, err := json.Marshal(&snapshot{
		ContractAddress: s.contractAddress,
		Balances:        s.balances,
		Allowances:      s.allowances,
		Storage:         s.storage,
		TotalSupply:     s.totalSupply,
		Owner:           s.owner,
		Name:            s.name,
		Symbol:          s.symbol,
		Decimals:        s.decimals,
		CreatedAt:       s.createdAt,
		LastUpdated:     s.lastUpdated,
	})
	if err != nil {
		return errors.Wrap(err, "failed to serialize contract state")
	}

	return ss.store.Set(ss.stateKey(s.contractAddress), value)
}

// Load reads the snapshot for address, or nil when none was persisted.
func (ss *Store) Load(address string) (*ContractState, error) {
	value, err := ss.store.Get(ss.stateKey(address))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	snap := &snapshot{}
	if err := json.Unmarshal(value, snap); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize contract state")
	}

	s := New(snap.ContractAddress)
	if snap.Balances != nil {
		s.balances = snap.Balances
	}
	if snap.Allowances != nil {
		s.allowances = snap.Allowances
	}
	if snap.Storage != nil {
		s.storage = snap.Storage
	}
	if snap.TotalSupply != nil {
		s.totalSupply = snap.TotalSupply
	}
	s.owner = snap.Owner
	s.name = snap.Name
	s.symbol = snap.Symbol
	s.decimals = snap.Decimals
	s.createdAt = snap.CreatedAt
	s.lastUpdated = snap.LastUpdated

	return s, nil
}

func (ss *Store) stateKey(address string) []byte {
	ms := marshalutil.New(1 + len(address))
	ms.WriteByte(storePrefixState)
	ms.WriteBytes([]byte(address))
	return ms.Bytes()
}
