package instruction

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/pkg/metadata"
)

func strptr(s string) *string { return &s }

func TestEncodeDecode_Create(t *testing.T) {
	args := &CreateRecord{
		Description: "a token",
		Links: []metadata.Link{
			{Label: "site", URL: "https://example.org"},
		},
		IconURI:   "https://example.org/icon.png",
		HeaderURI: "https://example.org/header.png",
	}

	data := EncodeCreate(args)
	op, rest, err := DecodeOp(data)
	if err != nil {
		t.Fatalf("DecodeOp: %v", err)
	}
	if op != OpCreateRecord {
		t.Fatalf("op = %v, want create_record", op)
	}

	got, err := DecodeCreate(rest)
	if err != nil {
		t.Fatalf("DecodeCreate: %v", err)
	}
	if !reflect.DeepEqual(got, args) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, args)
	}
}

func TestEncodeDecode_Update(t *testing.T) {
	auth := solana.MustPublicKeyFromBase58("8kzQJrCqPnXF6rLxciz1wHiB8GSmCefjFcgK8ACDES39")
	links := []metadata.Link{{Label: "docs", URL: "https://docs.example.org"}}

	cases := []struct {
		name string
		args *UpdateRecord
	}{
		{"all fields", &UpdateRecord{
			Description:  strptr("new description"),
			HeaderURI:    strptr("https://h"),
			IconURI:      strptr("https://i"),
			Links:        &links,
			NewAuthority: &auth,
		}},
		{"description only", &UpdateRecord{Description: strptr("only this")}},
		{"clear links", &UpdateRecord{Links: &[]metadata.Link{}}},
		{"empty update", &UpdateRecord{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := EncodeUpdate(tc.args)
			op, rest, err := DecodeOp(data)
			if err != nil {
				t.Fatalf("DecodeOp: %v", err)
			}
			if op != OpUpdateRecord {
				t.Fatalf("op = %v, want update_record", op)
			}
			got, err := DecodeUpdate(rest)
			if err != nil {
				t.Fatalf("DecodeUpdate: %v", err)
			}
			// An explicitly empty link list decodes as a present nil
			// slice; normalize before comparing.
			if tc.args.Links != nil && len(*tc.args.Links) == 0 {
				if got.Links == nil || *got.Links != nil {
					t.Fatalf("empty link list did not survive: %+v", got.Links)
				}
				got.Links = tc.args.Links
			}
			if !reflect.DeepEqual(got, tc.args) {
				t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, tc.args)
			}
		})
	}
}

func TestDecodeOp_Unknown(t *testing.T) {
	if _, _, err := DecodeOp([]byte{0xFF}); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("err = %v, want ErrUnknownOp", err)
	}
	if _, _, err := DecodeOp(nil); !errors.Is(err, ErrTruncatedPayload) {
		t.Errorf("empty: err = %v, want ErrTruncatedPayload", err)
	}
}

func TestDecodeCreate_Truncated(t *testing.T) {
	data := EncodeCreate(&CreateRecord{Description: "hello"})
	for n := 1; n < len(data); n++ {
		if _, err := DecodeCreate(data[1:n]); err == nil {
			t.Fatalf("DecodeCreate(data[1:%d]) accepted truncated payload", n)
		}
	}
}

func TestDecodeUpdate_BadTag(t *testing.T) {
	if _, err := DecodeUpdate([]byte{2}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestDecodeClose_TrailingBytes(t *testing.T) {
	if _, err := DecodeClose([]byte{0x01}); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
	if _, err := DecodeClose(nil); err != nil {
		t.Errorf("empty close payload: %v", err)
	}
}

func TestNewCreateRecord_Accounts(t *testing.T) {
	program := solana.MustPublicKeyFromBase58("8kzQJrCqPnXF6rLxciz1wHiB8GSmCefjFcgK8ACDES39")
	payer := solana.MustPublicKeyFromBase58("DNszn3BMm55VjxWSCwKCyX4r2EVTnYkRHyu9U3iukDbu")
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	ins, err := NewCreateRecord(program, payer, payer, mint, payer, &CreateRecord{Description: "x"})
	if err != nil {
		t.Fatalf("NewCreateRecord: %v", err)
	}
	if len(ins.Accounts) != 6 {
		t.Fatalf("account count = %d, want 6", len(ins.Accounts))
	}
	if !ins.Accounts[0].IsSigner || !ins.Accounts[0].IsWritable {
		t.Error("payer must be a writable signer")
	}
	if !ins.Accounts[1].IsSigner {
		t.Error("authority must be a signer")
	}

	record, _, err := metadata.DeriveRecordAddress(program, mint)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if ins.Accounts[3].PublicKey != record {
		t.Errorf("record account = %s, want derived %s", ins.Accounts[3].PublicKey, record)
	}
}

func TestInstruction_SigningBytesDeterministic(t *testing.T) {
	program := solana.MustPublicKeyFromBase58("8kzQJrCqPnXF6rLxciz1wHiB8GSmCefjFcgK8ACDES39")
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	ins, err := NewCloseRecord(program, program, mint, program)
	if err != nil {
		t.Fatalf("NewCloseRecord: %v", err)
	}
	a := ins.SigningBytes()
	b := ins.SigningBytes()
	if !reflect.DeepEqual(a, b) {
		t.Error("SigningBytes is not deterministic")
	}

	other, err := NewCloseRecord(program, program, mint, mint)
	if err != nil {
		t.Fatalf("NewCloseRecord: %v", err)
	}
	if reflect.DeepEqual(a, other.SigningBytes()) {
		t.Error("different instructions produced identical signing bytes")
	}
}
