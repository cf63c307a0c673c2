package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/iotaledger/hive.go/app/configuration"
	appLogger "github.com/iotaledger/hive.go/app/logger"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/logger"
	"github.com/stretchr/testify/require"

	"github.com/covenantlabs/covenant/covenant"
	"github.com/covenantlabs/covenant/covenant/state"
)

var initLoggerOnce sync.Once

func initTestLogger() {
	initLoggerOnce.Do(func() {
		cfg := configuration.New()
		_ = appLogger.InitGlobalLogger(cfg)
	})
}

const testAddress = "0xabc"

func newTestExecutor(t *testing.T) (*Executor, *covenant.Registry, *state.Registry) {
	t.Helper()
	initTestLogger()

	contracts, err := covenant.NewRegistry(mapdb.NewMapDB())
	require.NoError(t, err)

	states := state.NewRegistry(nil)

	return New(logger.NewLogger("test"), contracts, states, DefaultCosts(), nil), contracts, states
}

func deployActiveContract(t *testing.T, contracts *covenant.Registry) *covenant.Contract {
	t.Helper()

	contract := &covenant.Contract{
		ContractID:   "contract-1",
		Address:      testAddress,
		Name:         "Token",
		ContractType: "RICARDIAN",
		SourceCode:   "contract Token { party Issuer }",
		Status:       covenant.StatusActive,
	}
	require.NoError(t, contracts.Store(contract))
	return contract
}

func seedBalance(t *testing.T, states *state.Registry, account string, amount int64) {
	t.Helper()

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)

	st.Lock()
	defer st.Unlock()
	require.NoError(t, st.SetBalance(account, decimal.New(amount, 0)))
	st.IncreaseTotalSupply(decimal.New(amount, 0))
}

func balance(t *testing.T, states *state.Registry, account string) *decimal.Big {
	t.Helper()

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)

	st.Lock()
	defer st.Unlock()
	return st.Balance(account)
}

func execute(t *testing.T, e *Executor, method string, params ...interface{}) *Result {
	t.Helper()

	result, err := e.Execute(context.Background(), &Request{
		ContractAddress: testAddress,
		MethodName:      method,
		Parameters:      params,
		GasLimit:        100_000,
		Caller:          "alice",
	})
	require.NoError(t, err)
	return result
}

func TestTransferSuccess(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 100)

	result := execute(t, e, "transfer", "alice", "bob", "40")
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "true", result.Value)

	costs := DefaultCosts()
	expected := costs.Base + costs.Computation*5 + 2*costs.StorageRead + 2*costs.StorageWrite + costs.Log
	require.Equal(t, expected, result.GasUsed)

	require.Zero(t, balance(t, states, "alice").Cmp(decimal.New(60, 0)))
	require.Zero(t, balance(t, states, "bob").Cmp(decimal.New(40, 0)))
}

func TestTransferInsufficientBalance(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 50)

	result := execute(t, e, "transfer", "alice", "bob", "100")
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Message, "Insufficient balance")

	// The failed transfer charges base, computation and the balance read,
	// but no write units: the write never happened.
	costs := DefaultCosts()
	require.Equal(t, costs.Base+costs.Computation*5+costs.StorageRead, result.GasUsed)

	require.Zero(t, balance(t, states, "alice").Cmp(decimal.New(50, 0)))
	require.Zero(t, balance(t, states, "bob").Sign())
}

func TestTransferConservesTotal(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 100)

	result := execute(t, e, "transfer", "alice", "bob", "30")
	require.Equal(t, StatusSuccess, result.Status)

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()
	require.Zero(t, st.BalanceTotal().Cmp(decimal.New(100, 0)))
}

func TestOutOfGasOnBaseCharge(t *testing.T) {
	e, contracts, _ := newTestExecutor(t)
	deployActiveContract(t, contracts)

	result, err := e.Execute(context.Background(), &Request{
		ContractAddress: testAddress,
		MethodName:      "getValue",
		Parameters:      []interface{}{"key"},
		GasLimit:        1,
		Caller:          "alice",
	})
	require.NoError(t, err)
	require.Equal(t, StatusOutOfGas, result.Status)
	require.Equal(t, uint64(1), result.GasUsed)
}

func TestGasUsedNeverExceedsLimit(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 1_000)

	// A limit that covers the base charge but not the transfer writes.
	result, err := e.Execute(context.Background(), &Request{
		ContractAddress: testAddress,
		MethodName:      "transfer",
		Parameters:      []interface{}{"alice", "bob", "10"},
		GasLimit:        25_000,
		Caller:          "alice",
	})
	require.NoError(t, err)
	require.Equal(t, StatusOutOfGas, result.Status)
	require.Equal(t, uint64(25_000), result.GasUsed)

	// The mutation was never applied: gas is charged before the write.
	require.Zero(t, balance(t, states, "alice").Cmp(decimal.New(1_000, 0)))
	require.Zero(t, balance(t, states, "bob").Sign())
}

func TestUnknownMethod(t *testing.T) {
	e, contracts, _ := newTestExecutor(t)
	deployActiveContract(t, contracts)

	result := execute(t, e, "selfdestruct")
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Message, "unknown method")
}

func TestMethodNameCaseInsensitive(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 10)

	result := execute(t, e, "BalanceOf", "alice")
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "10", result.Value)
}

func TestContractNotFound(t *testing.T) {
	e, _, _ := newTestExecutor(t)

	result := execute(t, e, "getOwner")
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Message, "contract not found")
	require.Zero(t, result.GasUsed)
}

func TestContractNotActive(t *testing.T) {
	e, contracts, _ := newTestExecutor(t)

	contract := deployActiveContract(t, contracts)
	contract.Status = covenant.StatusPaused
	require.NoError(t, contracts.Store(contract))

	result := execute(t, e, "getOwner")
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Message, "contract not active")
}

func TestRequestValidation(t *testing.T) {
	e, _, _ := newTestExecutor(t)

	_, err := e.Execute(context.Background(), &Request{MethodName: "transfer", GasLimit: 1000})
	require.Error(t, err)

	_, err = e.Execute(context.Background(), &Request{ContractAddress: testAddress, GasLimit: 1000})
	require.Error(t, err)

	_, err = e.Execute(context.Background(), &Request{ContractAddress: testAddress, MethodName: "transfer"})
	require.Error(t, err)

	_, err = e.Execute(context.Background(), &Request{
		ContractAddress: testAddress,
		MethodName:      "transfer",
		GasLimit:        DefaultCosts().MaxGasLimit + 1,
	})
	require.Error(t, err)
}

func TestMintIncreasesSupply(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)

	result := execute(t, e, "mint", "alice", "500")
	require.Equal(t, StatusSuccess, result.Status)

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()
	require.Zero(t, st.TotalSupply().Cmp(decimal.New(500, 0)))
	require.Zero(t, st.Balance("alice").Cmp(decimal.New(500, 0)))
}

func TestBurnDecreasesSupply(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 500)

	result := execute(t, e, "burn", "alice", "200")
	require.Equal(t, StatusSuccess, result.Status)

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()
	require.Zero(t, st.TotalSupply().Cmp(decimal.New(300, 0)))
	require.Zero(t, st.Balance("alice").Cmp(decimal.New(300, 0)))
}

func TestBurnInsufficientBalance(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 50)

	result := execute(t, e, "burn", "alice", "100")
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Message, "Insufficient balance")
}

func TestApproveAndAllowance(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)

	result := execute(t, e, "approve", "bob", "75")
	require.Equal(t, StatusSuccess, result.Status)

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()
	require.Zero(t, st.Allowance("alice", "bob").Cmp(decimal.New(75, 0)))
}

func TestSetAndGetValue(t *testing.T) {
	e, contracts, _ := newTestExecutor(t)
	deployActiveContract(t, contracts)

	result := execute(t, e, "setValue", "terms", "net-30")
	require.Equal(t, StatusSuccess, result.Status)

	result = execute(t, e, "getValue", "terms")
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "net-30", result.Value)
}

func TestNegativeAmountRejected(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 100)

	result := execute(t, e, "transfer", "alice", "bob", "-10")
	require.Equal(t, StatusFailed, result.Status)
	require.Zero(t, balance(t, states, "alice").Cmp(decimal.New(100, 0)))
}

func TestExecutionCountIncrement(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 100)

	execute(t, e, "transfer", "alice", "bob", "10")
	execute(t, e, "balanceOf", "alice")

	stored, err := contracts.FindByAddress(testAddress)
	require.NoError(t, err)
	require.EqualValues(t, 2, stored.ExecutionCount)
}

func TestEstimateGasDoesNotMutate(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 100)

	estimate, err := e.EstimateGas(&Request{
		ContractAddress: testAddress,
		MethodName:      "transfer",
		Parameters:      []interface{}{"alice", "bob", "10"},
	})
	require.NoError(t, err)
	require.Greater(t, estimate, DefaultCosts().Base)

	require.Zero(t, balance(t, states, "alice").Cmp(decimal.New(100, 0)))
	require.Zero(t, balance(t, states, "bob").Sign())
}

func TestEstimateGasCoversActualCost(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 100)

	request := &Request{
		ContractAddress: testAddress,
		MethodName:      "transfer",
		Parameters:      []interface{}{"alice", "bob", "10"},
		GasLimit:        100_000,
		Caller:          "alice",
	}

	estimate, err := e.EstimateGas(request)
	require.NoError(t, err)

	result, err := e.Execute(context.Background(), request)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, result.Status)

	// The estimate uses the method's worst-case charge plus source and
	// parameter terms, so it bounds the actual cost from above.
	require.GreaterOrEqual(t, estimate, result.GasUsed)
}

func TestEstimateGasUnknownMethod(t *testing.T) {
	e, contracts, _ := newTestExecutor(t)
	deployActiveContract(t, contracts)

	_, err := e.EstimateGas(&Request{ContractAddress: testAddress, MethodName: "selfdestruct"})
	require.Error(t, err)
}

func TestConcurrentTransfersConserveTotal(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 1_000)

	const workers = 20

	// Failures are collected on a channel and asserted on the test
	// goroutine; FailNow must not run inside the workers.
	outcomes := make(chan *Result, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := e.Execute(context.Background(), &Request{
				ContractAddress: testAddress,
				MethodName:      "transfer",
				Parameters:      []interface{}{"alice", "bob", "10"},
				GasLimit:        100_000,
				Caller:          "alice",
			})
			if err != nil {
				errs <- err
				return
			}
			outcomes <- result
		}()
	}
	wg.Wait()
	close(outcomes)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for result := range outcomes {
		require.Equal(t, StatusSuccess, result.Status)
	}

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()
	require.Zero(t, st.BalanceTotal().Cmp(decimal.New(1_000, 0)))
	require.Zero(t, st.Balance("bob").Cmp(decimal.New(200, 0)))
}

func TestConcurrentExecutionCountUpdates(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)
	seedBalance(t, states, "alice", 1_000)

	const workers = 10

	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Execute(context.Background(), &Request{
				ContractAddress: testAddress,
				MethodName:      "balanceOf",
				Parameters:      []interface{}{"alice"},
				GasLimit:        100_000,
				Caller:          "alice",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// The counter is incremented under the address's state lock, so no
	// update is lost to a concurrent read-modify-write.
	stored, err := contracts.FindByAddress(testAddress)
	require.NoError(t, err)
	require.EqualValues(t, workers, stored.ExecutionCount)
}

func TestExecutionTimeout(t *testing.T) {
	initTestLogger()

	contracts, err := covenant.NewRegistry(mapdb.NewMapDB())
	require.NoError(t, err)
	states := state.NewRegistry(nil)

	costs := DefaultCosts()
	costs.MaxExecutionTime = 100 * time.Millisecond
	e := New(logger.NewLogger("test"), contracts, states, costs, nil)

	deployActiveContract(t, contracts)

	// Holding the record lock stalls the dispatch past the ceiling.
	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()

	result, err := e.Execute(context.Background(), &Request{
		ContractAddress: testAddress,
		MethodName:      "getOwner",
		GasLimit:        100_000,
		Caller:          "alice",
	})
	require.NoError(t, err)
	require.Equal(t, StatusTimeout, result.Status)
	require.Equal(t, uint64(100_000), result.GasUsed)
}

func TestCallerCancellationIsNotTimeout(t *testing.T) {
	e, contracts, states := newTestExecutor(t)
	deployActiveContract(t, contracts)

	st, err := states.StateFor(testAddress)
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.Execute(ctx, &Request{
		ContractAddress: testAddress,
		MethodName:      "getOwner",
		GasLimit:        100_000,
		Caller:          "alice",
	})
	require.NoError(t, err)
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Message, "canceled")
}

func TestExecutedEventTriggered(t *testing.T) {
	e, contracts, _ := newTestExecutor(t)
	deployActiveContract(t, contracts)

	var (
		mu      sync.Mutex
		results []*Result
	)
	e.Events().Executed.Hook(func(result *Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, result)
	})

	execute(t, e, "getOwner")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	require.Equal(t, StatusSuccess, results[0].Status)
}
