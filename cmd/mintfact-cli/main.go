// mintfact-cli is a command-line client for interacting with a
// mintfactd node.
package main

import (
	"crypto/ed25519"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/term"

	"github.com/mintfact/mintfact/config"
	"github.com/mintfact/mintfact/internal/keyring"
	"github.com/mintfact/mintfact/internal/ledger"
	"github.com/mintfact/mintfact/internal/rpcclient"
	"github.com/mintfact/mintfact/pkg/instruction"
	"github.com/mintfact/mintfact/pkg/metadata"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:8899"
	dataDir := config.DefaultDataDir()

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := config.KeyringDir(dataDir)
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "balance":
		cmdBalance(client, cmdArgs)
	case "account":
		cmdAccount(client, cmdArgs)
	case "airdrop":
		cmdAirdrop(client, cmdArgs)
	case "derive":
		cmdDerive(client, cmdArgs)
	case "get":
		cmdGet(client, cmdArgs)
	case "list":
		cmdList(client, cmdArgs)
	case "create":
		cmdCreate(client, cmdArgs, ksDir)
	case "update":
		cmdUpdate(client, cmdArgs, ksDir)
	case "close":
		cmdClose(client, cmdArgs, ksDir)
	case "key":
		cmdKey(cmdArgs, ksDir)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: mintfact-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8899)
  --datadir <path>    Data directory (default: ~/.mintfact)

Commands:
  status                          Show node status
  balance <address>               Show lamport balance
  account <address>               Show raw account details
  airdrop <address> <lamports>    Request faucet funds (dev nodes)
  derive <mint>                   Derive the record address for a mint
  get <mint>                      Fetch the metadata record for a mint
  list [--limit <n>]              List all metadata records

  create --key <name> --mint <mint> --description <text>
         [--icon <uri>] [--header <uri>] [--links label=url,...]
                                  Register metadata for a mint
  update --key <name> --mint <mint> [--description <text>]
         [--icon <uri>] [--header <uri>] [--links label=url,...]
         [--new-authority <addr>]
                                  Update fields of an existing record
  close  --key <name> --mint <mint> [--dest <addr>]
                                  Close a record and refund its rent

  key new --name <n> [--mnemonic "..."]
                                  Create (or restore) a signing key
  key list                        List stored keys
  key address --name <n>          Show a key's public address
`)
}

// ── Read-only commands ──────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	info, err := client.NodeInfo()
	if err != nil {
		fatal("node_getInfo: %v", err)
	}
	commitment, err := client.GetCommitment()
	if err != nil {
		fatal("ledger_getCommitment: %v", err)
	}

	fmt.Printf("Version:      %s\n", info.Version)
	fmt.Printf("Program:      %s\n", info.ProgramID)
	fmt.Printf("Fee receiver: %s\n", info.FeeReceiver)
	fmt.Printf("Creation fee: %d lamports\n", info.CreationFee)
	fmt.Printf("Accounts:     %d\n", info.Accounts)
	fmt.Printf("Commitment:   %s\n", commitment)
}

func cmdBalance(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: mintfact-cli balance <address>")
	}
	addr := parseAddress(args[0])

	bal, err := client.GetBalance(addr)
	if err != nil {
		fatal("ledger_getBalance: %v", err)
	}
	fmt.Printf("%d lamports\n", bal)
}

func cmdAccount(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: mintfact-cli account <address>")
	}
	addr := parseAddress(args[0])

	acct, err := client.GetAccount(addr)
	if err != nil {
		fatal("ledger_getAccount: %v", err)
	}
	fmt.Printf("Address:  %s\n", acct.Address)
	fmt.Printf("Lamports: %d\n", acct.Lamports)
	fmt.Printf("Owner:    %s\n", acct.Owner)
	fmt.Printf("Data:     %d bytes\n", len(acct.Data))
}

func cmdAirdrop(client *rpcclient.Client, args []string) {
	if len(args) != 2 {
		fatal("Usage: mintfact-cli airdrop <address> <lamports>")
	}
	addr := parseAddress(args[0])
	lamports, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fatal("invalid lamports: %v", err)
	}

	bal, err := client.RequestAirdrop(addr, lamports)
	if err != nil {
		fatal("ledger_requestAirdrop: %v", err)
	}
	fmt.Printf("New balance: %d lamports\n", bal)
}

func cmdDerive(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: mintfact-cli derive <mint>")
	}
	mint := parseAddress(args[0])

	result, err := client.DeriveAddress(mint)
	if err != nil {
		fatal("meta_deriveAddress: %v", err)
	}
	fmt.Printf("Mint:    %s\n", result.Mint)
	fmt.Printf("Address: %s\n", result.Address)
	fmt.Printf("Bump:    %d\n", result.Bump)
}

func cmdGet(client *rpcclient.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: mintfact-cli get <mint>")
	}
	mint := parseAddress(args[0])

	result, err := client.GetRecord(mint)
	if err != nil {
		fatal("meta_getRecord: %v", err)
	}
	printJSON(result)
}

func cmdList(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum records to return (0 = all)")
	fs.Parse(args)

	records, err := client.ListRecords(*limit)
	if err != nil {
		fatal("meta_listRecords: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, r := range records {
		fmt.Printf("%s  %s  %q\n", r.Record.Mint, r.Address, r.Record.Description)
	}
}

// ── Mutating commands ───────────────────────────────────────────────────

func cmdCreate(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	keyName := fs.String("key", "", "Signing key name (payer and authority)")
	mintStr := fs.String("mint", "", "SPL mint address")
	description := fs.String("description", "", "Token description")
	icon := fs.String("icon", "", "Icon URI")
	header := fs.String("header", "", "Header image URI")
	linksStr := fs.String("links", "", "Comma-separated label=url pairs")
	fs.Parse(args)

	if *keyName == "" || *mintStr == "" || *description == "" {
		fatal("Usage: mintfact-cli create --key <name> --mint <mint> --description <text>")
	}
	mint := parseAddress(*mintStr)
	links := parseLinks(*linksStr)

	priv, addr := loadKey(ksDir, *keyName)
	ins, err := instruction.NewCreateRecord(config.ProgramID, addr, addr, mint, config.FeeReceiver,
		&instruction.CreateRecord{
			Description: *description,
			Links:       links,
			IconURI:     *icon,
			HeaderURI:   *header,
		})
	if err != nil {
		fatal("build create: %v", err)
	}

	tx := &ledger.Transaction{Instruction: *ins}
	tx.Sign(priv)
	if err := client.SubmitTransaction(tx); err != nil {
		fatal("submit: %v", err)
	}
	record, _, _ := metadata.DeriveRecordAddress(config.ProgramID, mint)
	fmt.Printf("Record created at %s\n", record)
}

func cmdUpdate(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	keyName := fs.String("key", "", "Signing key name (authority and payer)")
	mintStr := fs.String("mint", "", "SPL mint address")
	description := fs.String("description", "", "New description")
	icon := fs.String("icon", "", "New icon URI")
	header := fs.String("header", "", "New header image URI")
	linksStr := fs.String("links", "", "New comma-separated label=url pairs")
	newAuth := fs.String("new-authority", "", "Hand the record to a new authority")
	fs.Parse(args)

	if *keyName == "" || *mintStr == "" {
		fatal("Usage: mintfact-cli update --key <name> --mint <mint> [fields]")
	}
	mint := parseAddress(*mintStr)

	// Only explicitly passed flags become field updates, so an empty
	// string can still clear a field.
	updates := &instruction.UpdateRecord{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "description":
			updates.Description = description
		case "icon":
			updates.IconURI = icon
		case "header":
			updates.HeaderURI = header
		case "links":
			links := parseLinks(*linksStr)
			updates.Links = &links
		case "new-authority":
			next := parseAddress(*newAuth)
			updates.NewAuthority = &next
		}
	})
	if updates.Description == nil && updates.IconURI == nil && updates.HeaderURI == nil &&
		updates.Links == nil && updates.NewAuthority == nil {
		fatal("nothing to update: pass at least one field flag")
	}

	priv, addr := loadKey(ksDir, *keyName)
	ins, err := instruction.NewUpdateRecord(config.ProgramID, addr, addr, mint, updates)
	if err != nil {
		fatal("build update: %v", err)
	}

	tx := &ledger.Transaction{Instruction: *ins}
	tx.Sign(priv)
	if err := client.SubmitTransaction(tx); err != nil {
		fatal("submit: %v", err)
	}
	fmt.Println("Record updated.")
}

func cmdClose(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("close", flag.ExitOnError)
	keyName := fs.String("key", "", "Signing key name (authority)")
	mintStr := fs.String("mint", "", "SPL mint address")
	destStr := fs.String("dest", "", "Rent refund destination (default: the key)")
	fs.Parse(args)

	if *keyName == "" || *mintStr == "" {
		fatal("Usage: mintfact-cli close --key <name> --mint <mint> [--dest <addr>]")
	}
	mint := parseAddress(*mintStr)

	priv, addr := loadKey(ksDir, *keyName)
	dest := addr
	if *destStr != "" {
		dest = parseAddress(*destStr)
	}

	ins, err := instruction.NewCloseRecord(config.ProgramID, addr, mint, dest)
	if err != nil {
		fatal("build close: %v", err)
	}

	tx := &ledger.Transaction{Instruction: *ins}
	tx.Sign(priv)
	if err := client.SubmitTransaction(tx); err != nil {
		fatal("submit: %v", err)
	}
	fmt.Printf("Record closed, rent refunded to %s\n", dest)
}

// ── Key management ──────────────────────────────────────────────────────

func cmdKey(args []string, ksDir string) {
	if len(args) == 0 {
		fatal("Usage: mintfact-cli key <new|list|address> [flags]")
	}
	switch args[0] {
	case "new":
		cmdKeyNew(args[1:], ksDir)
	case "list":
		cmdKeyList(ksDir)
	case "address":
		cmdKeyAddress(args[1:], ksDir)
	default:
		fatal("unknown key command: %s", args[0])
	}
}

func cmdKeyNew(args []string, ksDir string) {
	fs := flag.NewFlagSet("key new", flag.ExitOnError)
	name := fs.String("name", "", "Key name")
	mnemonicFlag := fs.String("mnemonic", "", "Restore from an existing mnemonic")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: mintfact-cli key new --name <n> [--mnemonic \"...\"]")
	}

	ks, err := keyring.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	mnemonic := *mnemonicFlag
	generated := false
	if mnemonic == "" {
		mnemonic, err = keyring.GenerateMnemonic()
		if err != nil {
			fatal("generate mnemonic: %v", err)
		}
		generated = true
	}

	priv, err := keyring.KeyFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive key: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	addr, err := ks.Create(*name, priv, password, keyring.DefaultParams())
	if err != nil {
		fatal("store key: %v", err)
	}

	fmt.Printf("Key %q created.\nAddress: %s\n", *name, addr)
	if generated {
		fmt.Printf("\nRecovery mnemonic (write this down, it is shown once):\n\n  %s\n", mnemonic)
	}
}

func cmdKeyList(ksDir string) {
	ks, err := keyring.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	names, err := ks.List()
	if err != nil {
		fatal("list keys: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No keys.")
		return
	}
	for _, name := range names {
		addr, err := ks.Address(name)
		if err != nil {
			fmt.Printf("%s  (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("%s  %s\n", name, addr)
	}
}

func cmdKeyAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("key address", flag.ExitOnError)
	name := fs.String("name", "", "Key name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: mintfact-cli key address --name <n>")
	}

	ks, err := keyring.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	addr, err := ks.Address(*name)
	if err != nil {
		fatal("read key: %v", err)
	}
	fmt.Println(addr)
}

// ── Helpers ─────────────────────────────────────────────────────────────

func loadKey(ksDir, name string) (ed25519.PrivateKey, solana.PublicKey) {
	ks, err := keyring.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	password, err := readPassword(fmt.Sprintf("Password for key %q: ", name))
	if err != nil {
		fatal("read password: %v", err)
	}
	priv, err := ks.Load(name, password)
	if err != nil {
		fatal("unlock key %q: %v", name, err)
	}
	return priv, solana.PublicKeyFromBytes(priv.Public().(ed25519.PublicKey))
}

func parseAddress(s string) solana.PublicKey {
	addr, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		fatal("invalid address %q: %v", s, err)
	}
	return addr
}

func parseLinks(s string) []metadata.Link {
	if s == "" {
		return nil
	}
	var links []metadata.Link
	for _, pair := range strings.Split(s, ",") {
		label, url, ok := strings.Cut(pair, "=")
		if !ok {
			fatal("invalid link %q: expected label=url", pair)
		}
		links = append(links, metadata.Link{Label: label, URL: url})
	}
	return links
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("marshal: %v", err)
	}
	fmt.Println(string(data))
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
