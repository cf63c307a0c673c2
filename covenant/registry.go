package covenant

import (
	"encoding/json"

	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/pkg/errors"
)

const (
	// Storage key prefixes
	StorePrefixContract byte = 0
	StorePrefixState    byte = 1
)

// Registry is the kvstore-backed contract repository. It is the engine's
// only view of persisted contracts; durable commit of execution outcomes
// stays with the surrounding persistence layer.
type Registry struct {
	store kvstore.KVStore
}

// NewRegistry creates a contract registry on its own kvstore realm.
func NewRegistry(store kvstore.KVStore) (*Registry, error) {
	contractStore, err := store.WithRealm([]byte{0xC0}) // contract realm
	if err != nil {
		return nil, err
	}

	return &Registry{
		store: contractStore,
	}, nil
}

// Store persists a contract record.
func (r *Registry) Store(contract *Contract) error {
	value, err := json.Marshal(contract)
	if err != nil {
		return errors.Wrap(err, "failed to serialize contract")
	}

	return r.store.Set(r.contractKey(contract.Address), value)
}

// FindByAddress returns the contract registered under address, or nil when
// no such contract exists.
func (r *Registry) FindByAddress(address string) (*Contract, error) {
	value, err := r.store.Get(r.contractKey(address))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	contract := &Contract{}
	if err := json.Unmarshal(value, contract); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize contract")
	}
	return contract, nil
}

// Delete removes a contract record.
func (r *Registry) Delete(address string) error {
	return r.store.Delete(r.contractKey(address))
}

// List returns all registered contracts.
func (r *Registry) List() ([]*Contract, error) {
	var contracts []*Contract

	prefix := []byte{StorePrefixContract}
	if err := r.store.Iterate(prefix, func(key kvstore.Key, value kvstore.Value) bool {
		contract := &Contract{}
		if err := json.Unmarshal(value, contract); err != nil {
			return false
		}
		contracts = append(contracts, contract)
		return true
	}); err != nil {
		return nil, err
	}

	return contracts, nil
}

func (r *Registry) contractKey(address string) []byte {
	ms := marshalutil.New(1 + len(address))
	ms.WriteByte(StorePrefixContract)
	ms.WriteBytes([]byte(address))
	return ms.Bytes()
}
