package rpcclient

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	erc20MethodID   []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		balanceOfMethod, ok := parsedERC20ABI.Methods["balanceOf"]
		if !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
		erc20MethodID = balanceOfMethod.ID
	})
}

// AlchemyRPCURL builds the Alchemy HTTPS transport URL for a chain, or ""
// when the chain has no Alchemy network slug or no API key is configured.
func AlchemyRPCURL(chain entity.Chain, apiKey string) string {
	if apiKey == "" || chain.AlchemyNetwork == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", chain.AlchemyNetwork, apiKey)
}

// transportURLs returns the ordered transport list for a chain: the
// Alchemy-backed endpoint first when available, then the public RPC
// endpoints. The list is tried in order, never raced.
func transportURLs(chain entity.Chain, apiKey string) []string {
	urls := make([]string, 0, 2+len(chain.FallbackRPCURLs))
	if u := AlchemyRPCURL(chain, apiKey); u != "" {
		urls = append(urls, u)
	}
	if chain.PrimaryRPCURL != "" {
		urls = append(urls, chain.PrimaryRPCURL)
	}
	urls = append(urls, chain.FallbackRPCURLs...)
	return urls
}

// EVMClient issues balance reads against one chain over batched JSON-RPC.
// HTTP transports connect lazily, so the fallback walk happens per call:
// a request-time failure on one endpoint retries the remaining endpoints
// in order before the call is reported as failed.
type EVMClient struct {
	chain            entity.Chain
	transports       []string
	connectTimeout   time.Duration
	callTimeout      time.Duration
	maxCallsPerBatch int

	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

// NewEVMClient creates a client over the chain's ordered transport list.
func NewEVMClient(chain entity.Chain, apiKey string, connectTimeout, callTimeout time.Duration, maxCallsPerBatch int) (*EVMClient, error) {
	initParsedERC20ABI()

	transports := transportURLs(chain, apiKey)
	if len(transports) == 0 {
		return nil, fmt.Errorf("no RPC transports configured for chain %s", chain.Name)
	}

	return &EVMClient{
		chain:            chain,
		transports:       transports,
		connectTimeout:   connectTimeout,
		callTimeout:      callTimeout,
		maxCallsPerBatch: maxCallsPerBatch,
		clients:          make(map[string]*ethclient.Client),
	}, nil
}

// Chain returns the chain definition this client serves.
func (c *EVMClient) Chain() entity.Chain {
	return c.chain
}

// client returns the cached connection for one transport URL, dialing on
// first use.
func (c *EVMClient) client(url string) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[url]; ok {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.connectTimeout)
	defer cancel()
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", url, err)
	}
	c.clients[url] = client
	return client, nil
}

// eachTransport runs do against each transport in order until one succeeds.
func (c *EVMClient) eachTransport(ctx context.Context, do func(client *ethclient.Client) error) error {
	var lastErr error
	for _, url := range c.transports {
		if err := ctx.Err(); err != nil {
			return err
		}

		client, err := c.client(url)
		if err != nil {
			lastErr = err
			continue
		}
		if err := do(client); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all RPC transports failed for chain %s: %w", c.chain.Name, lastErr)
}

// NativeBalance fetches the native-coin balance of a wallet.
func (c *EVMClient) NativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	var balance *big.Int
	err := c.eachTransport(ctx, func(client *ethclient.Client) error {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		defer cancel()

		b, err := client.BalanceAt(callCtx, common.HexToAddress(walletAddress), nil)
		if err != nil {
			return fmt.Errorf("eth_getBalance failed for %s on %s: %w", walletAddress, c.chain.Name, err)
		}
		balance = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// TokenBalances fetches balanceOf for every contract in one or more batched
// eth_call round-trips. The result slice is aligned with the contracts slice;
// entries whose individual call failed are nil. A transport-level batch
// failure retries the whole lookup on the next endpoint.
func (c *EVMClient) TokenBalances(ctx context.Context, walletAddress string, contracts []string) ([]*big.Int, error) {
	if len(contracts) == 0 {
		return []*big.Int{}, nil
	}

	paddedWallet := common.LeftPadBytes(common.HexToAddress(walletAddress).Bytes(), 32)
	callData := append(erc20MethodID, paddedWallet...)

	var results []*big.Int
	err := c.eachTransport(ctx, func(client *ethclient.Client) error {
		res, err := c.tokenBalancesOn(ctx, client, callData, contracts)
		if err != nil {
			return err
		}
		results = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *EVMClient) tokenBalancesOn(ctx context.Context, client *ethclient.Client, callData []byte, contracts []string) ([]*big.Int, error) {
	results := make([]*big.Int, len(contracts))
	rawRPCClient := client.Client()

	offset := 0
	for _, chunk := range utils.BatchStrings(contracts, c.maxCallsPerBatch) {
		batch := make([]rpc.BatchElem, len(chunk))
		for i, contract := range chunk {
			callArgs := map[string]interface{}{
				"to":   common.HexToAddress(contract),
				"data": hexutil.Bytes(callData),
			}
			batch[i] = rpc.BatchElem{
				Method: "eth_call",
				Args:   []interface{}{callArgs, "latest"},
				Result: new(hexutil.Bytes),
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		err := rawRPCClient.BatchCallContext(callCtx, batch)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("RPC batch call failed on %s: %w", c.chain.Name, err)
		}

		for i, elem := range batch {
			if elem.Error != nil {
				continue
			}
			raw, ok := elem.Result.(*hexutil.Bytes)
			if !ok || raw == nil {
				continue
			}
			if len(*raw) == 0 {
				results[offset+i] = big.NewInt(0)
				continue
			}
			unpacked, err := parsedERC20ABI.Unpack("balanceOf", *raw)
			if err != nil || len(unpacked) == 0 {
				continue
			}
			if bal, ok := unpacked[0].(*big.Int); ok {
				results[offset+i] = bal
			}
		}
		offset += len(chunk)
	}

	return results, nil
}
