package genallocs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
	"lukechampine.com/blake3"

	"github.com/dominant-strategies/quai-evm/common"
)

// ErrInvalidAllocs is returned when a prestate file does not match the hash
// it was expected to have.
var ErrInvalidAllocs = errors.New("invalid genesis allocs")

// allocsFile is the on-disk layout of a prestate file.
type allocsFile struct {
	Accounts []accountEntry `json:"accounts" toml:"accounts" yaml:"accounts"`
}

type accountEntry struct {
	Address common.Address    `json:"address" toml:"address" yaml:"address"`
	Balance string            `json:"balance" toml:"balance" yaml:"balance"`
	Nonce   uint64            `json:"nonce" toml:"nonce" yaml:"nonce"`
	Code    string            `json:"code" toml:"code" yaml:"code"`
	Storage map[string]string `json:"storage" toml:"storage" yaml:"storage"`
}

// GenesisAccount is an account of the prestate a ledger is initialised with.
type GenesisAccount struct {
	Address common.Address
	Balance *big.Int
	Nonce   uint64
	Code    []byte
	Storage *orderedmap.OrderedMap[common.Hash, common.Hash] // slots in ascending key order
}

// ReadGenesisAllocs reads a prestate file. The format is picked by extension:
// .json, .toml, .yaml or .yml.
func ReadGenesisAllocs(filename string) ([]GenesisAccount, error) {
	path := filepath.Clean(filename)
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return DecodeGenesisAllocs(file, filepath.Ext(path))
}

// VerifyGenesisAllocs reads a prestate file after checking that its blake3
// hash is expectedHash.
func VerifyGenesisAllocs(filename string, expectedHash common.Hash) ([]GenesisAccount, error) {
	path := filepath.Clean(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	if hash := blake3.Sum256(data); !bytes.Equal(hash[:], expectedHash.Bytes()) {
		return nil, errors.Wrapf(ErrInvalidAllocs, "have hash %x, want %x", hash, expectedHash)
	}
	return DecodeGenesisAllocs(bytes.NewReader(data), filepath.Ext(path))
}

// FileHash returns the blake3 hash VerifyGenesisAllocs checks a file against.
func FileHash(filename string) (common.Hash, error) {
	file, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	hasher := blake3.New(32, nil)
	// Stream the file to the hasher to avoid holding it all in memory.
	if _, err := io.Copy(hasher, file); err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to hash file")
	}
	return common.BytesToHash(hasher.Sum(nil)), nil
}

// DecodeGenesisAllocs decodes a prestate in the format named by ext.
func DecodeGenesisAllocs(r io.Reader, ext string) ([]GenesisAccount, error) {
	var allocs allocsFile
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&allocs); err != nil {
			return nil, errors.Wrap(err, "failed to decode JSON")
		}
	case ".toml":
		if err := toml.NewDecoder(r).Decode(&allocs); err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML")
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&allocs); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
	default:
		return nil, fmt.Errorf("unsupported allocs format %q", ext)
	}

	accounts := make([]GenesisAccount, 0, len(allocs.Accounts))
	for i, entry := range allocs.Accounts {
		account, err := entry.resolve()
		if err != nil {
			return nil, errors.Wrapf(err, "account %d (%x)", i, entry.Address)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (entry *accountEntry) resolve() (GenesisAccount, error) {
	account := GenesisAccount{
		Address: entry.Address,
		Balance: new(big.Int),
		Nonce:   entry.Nonce,
		Storage: orderedmap.New[common.Hash, common.Hash](),
	}
	if entry.Balance != "" {
		if _, ok := account.Balance.SetString(entry.Balance, 0); !ok || account.Balance.Sign() < 0 {
			return GenesisAccount{}, fmt.Errorf("invalid balance %q", entry.Balance)
		}
	}
	if entry.Code != "" {
		code, err := hexutil.Decode(entry.Code)
		if err != nil {
			return GenesisAccount{}, errors.Wrap(err, "invalid code")
		}
		account.Code = code
	}
	keys := make([]common.Hash, 0, len(entry.Storage))
	values := make(map[common.Hash]common.Hash, len(entry.Storage))
	for k, v := range entry.Storage {
		key, value := common.HexToHash(k), common.HexToHash(v)
		keys = append(keys, key)
		values[key] = value
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	for _, key := range keys {
		account.Storage.Set(key, values[key])
	}
	return account, nil
}
