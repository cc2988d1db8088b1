package rpc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/config"
	"github.com/mintfact/mintfact/internal/ledger"
	"github.com/mintfact/mintfact/internal/program"
	"github.com/mintfact/mintfact/pkg/metadata"
)

// ── Node endpoints ──────────────────────────────────────────────────────

func (s *Server) handleNodeGetInfo(req *Request) (interface{}, *Error) {
	count := 0
	err := s.runtime.ForEachAccount(func(solana.PublicKey, *ledger.Account) error {
		count++
		return nil
	})
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &NodeInfoResult{
		Version:     s.version,
		ProgramID:   config.ProgramID.String(),
		FeeReceiver: config.FeeReceiver.String(),
		CreationFee: config.CreationFee,
		Accounts:    count,
	}, nil
}

// ── Ledger endpoints ────────────────────────────────────────────────────

func (s *Server) handleLedgerSubmitTransaction(req *Request) (interface{}, *Error) {
	var params SubmitParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Transaction == nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "transaction is required"}
	}

	if err := s.runtime.Submit(params.Transaction); err != nil {
		return nil, submitError(err)
	}
	return &SubmitResult{Committed: true}, nil
}

// submitError maps execution failures onto JSON-RPC error codes. The
// sentinel name travels in the data field so clients can branch on it.
func submitError(err error) *Error {
	code := CodeRejected
	switch {
	case errors.Is(err, ledger.ErrInvalidSignature),
		errors.Is(err, ledger.ErrMissingSignature),
		errors.Is(err, ledger.ErrUnknownProgram),
		errors.Is(err, program.ErrInvalidInput):
		code = CodeInvalidParams
	case errors.Is(err, ledger.ErrAccountNotFound):
		code = CodeNotFound
	}
	return &Error{Code: code, Message: err.Error()}
}

func (s *Server) handleLedgerGetAccount(req *Request) (interface{}, *Error) {
	addr, rpcErr := addressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	acct, err := s.runtime.Account(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("account %s not found", addr)}
	}
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &AccountResult{
		Address:  addr.String(),
		Lamports: acct.Lamports,
		Owner:    acct.Owner.String(),
		Data:     acct.Data,
	}, nil
}

func (s *Server) handleLedgerGetBalance(req *Request) (interface{}, *Error) {
	addr, rpcErr := addressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	bal, err := s.runtime.Balance(addr)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &BalanceResult{Address: addr.String(), Lamports: bal}, nil
}

func (s *Server) handleLedgerRequestAirdrop(req *Request) (interface{}, *Error) {
	if !s.faucet.Enabled {
		return nil, &Error{Code: CodeInvalidRequest, Message: "faucet is disabled"}
	}

	var params AirdropParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := solana.PublicKeyFromBase58(params.Address)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
	}
	if params.Lamports == 0 || params.Lamports > s.faucet.MaxAirdrop {
		return nil, &Error{Code: CodeInvalidParams,
			Message: fmt.Sprintf("lamports must be between 1 and %d", s.faucet.MaxAirdrop)}
	}

	if err := s.runtime.Airdrop(addr, params.Lamports); err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	bal, err := s.runtime.Balance(addr)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &BalanceResult{Address: addr.String(), Lamports: bal}, nil
}

func (s *Server) handleLedgerGetCommitment(req *Request) (interface{}, *Error) {
	root, err := s.runtime.Commitment()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &CommitmentResult{Commitment: root.String()}, nil
}

// ── Metadata endpoints ──────────────────────────────────────────────────

func (s *Server) handleMetaGetRecord(req *Request) (interface{}, *Error) {
	mint, rpcErr := mintParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	addr, _, err := metadata.DeriveRecordAddress(config.ProgramID, mint)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	acct, err := s.runtime.Account(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("no record for mint %s", mint)}
	}
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	record, err := program.ValidateRecordAccount(config.ProgramID, addr, acct, mint)
	if err != nil {
		return nil, &Error{Code: CodeRejected, Message: err.Error()}
	}
	return &RecordResult{Address: addr.String(), Record: record}, nil
}

func (s *Server) handleMetaDeriveAddress(req *Request) (interface{}, *Error) {
	mint, rpcErr := mintParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	addr, bump, err := metadata.DeriveRecordAddress(config.ProgramID, mint)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &DeriveResult{Mint: mint.String(), Address: addr.String(), Bump: bump}, nil
}

func (s *Server) handleMetaListRecords(req *Request) (interface{}, *Error) {
	var params ListParam
	if req.Params != nil {
		if err := parseParams(req, &params); err != nil {
			return nil, err
		}
	}

	var results []*RecordResult
	err := s.runtime.ForEachAccount(func(addr solana.PublicKey, acct *ledger.Account) error {
		if acct.Owner != config.ProgramID {
			return nil
		}
		record, err := metadata.Decode(acct.Data)
		if err != nil {
			s.logger.Warn().Str("account", addr.String()).Err(err).Msg("Skipping undecodable record")
			return nil
		}
		results = append(results, &RecordResult{Address: addr.String(), Record: record})
		return nil
	})
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	// Stable order regardless of store iteration.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Record.Mint.String() < results[j].Record.Mint.String()
	})
	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
	}
	if results == nil {
		results = []*RecordResult{}
	}
	return results, nil
}

// ── Param helpers ───────────────────────────────────────────────────────

func addressParam(req *Request) (solana.PublicKey, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return solana.PublicKey{}, err
	}
	if params.Address == "" {
		return solana.PublicKey{}, &Error{Code: CodeInvalidParams, Message: "address is required"}
	}
	addr, err := solana.PublicKeyFromBase58(params.Address)
	if err != nil {
		return solana.PublicKey{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
	}
	return addr, nil
}

func mintParam(req *Request) (solana.PublicKey, *Error) {
	var params MintParam
	if err := parseParams(req, &params); err != nil {
		return solana.PublicKey{}, err
	}
	if params.Mint == "" {
		return solana.PublicKey{}, &Error{Code: CodeInvalidParams, Message: "mint is required"}
	}
	mint, err := solana.PublicKeyFromBase58(params.Mint)
	if err != nil {
		return solana.PublicKey{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid mint: %v", err)}
	}
	return mint, nil
}
