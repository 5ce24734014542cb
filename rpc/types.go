package rpc

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
)

// Signer names one ceremony participant.
type Signer struct {
	Identity string `json:"identity"`
}

type CreateParticipantRequest struct {
	Name string `json:"name"`
}

type CreateParticipantResponse struct {
	Identity string `json:"identity"`
}

type CreateSigningCommitmentRequest struct {
	Account             string   `json:"account,omitempty"`
	UnsignedTransaction string   `json:"unsignedTransaction"`
	Signers             []Signer `json:"signers"`
}

type CreateSigningCommitmentResponse struct {
	Commitment string `json:"commitment"`
}

type CreateSigningPackageRequest struct {
	UnsignedTransaction string   `json:"unsignedTransaction"`
	Commitments         []string `json:"commitments"`
}

type CreateSigningPackageResponse struct {
	SigningPackage string `json:"signingPackage"`
}

type CreateSignatureShareRequest struct {
	Account             string   `json:"account,omitempty"`
	SigningPackage      string   `json:"signingPackage"`
	UnsignedTransaction string   `json:"unsignedTransaction"`
	Signers             []Signer `json:"signers"`
}

type CreateSignatureShareResponse struct {
	SignatureShare string `json:"signatureShare"`
}

type AggregateSignatureSharesRequest struct {
	Account             string   `json:"account,omitempty"`
	SigningPackage      string   `json:"signingPackage"`
	UnsignedTransaction string   `json:"unsignedTransaction"`
	SignatureShares     []string `json:"signatureShares"`
}

type AggregateSignatureSharesResponse struct {
	Signature string `json:"signature"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errValidation = errors.New("invalid request")

func required(field, v string) error {
	if v == "" {
		return errors.Wrapf(errValidation, "%s is required", field)
	}
	return nil
}

func requiredHex(field, v string) error {
	if err := required(field, v); err != nil {
		return err
	}
	if _, err := hex.DecodeString(v); err != nil {
		return errors.Wrapf(errValidation, "%s must be hex", field)
	}
	return nil
}

func hexList(field string, vs []string) error {
	if len(vs) == 0 {
		return errors.Wrapf(errValidation, "%s must not be empty", field)
	}
	for i, v := range vs {
		if err := requiredHex(fmt.Sprintf("%s[%d]", field, i), v); err != nil {
			return err
		}
	}
	return nil
}

func signerList(signers []Signer) ([]string, error) {
	ids := make([]string, len(signers))
	for i, s := range signers {
		ids[i] = s.Identity
	}
	if err := hexList("signers", ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *CreateParticipantRequest) validate() error {
	return required("name", r.Name)
}

func (r *CreateSigningCommitmentRequest) validate() ([]string, error) {
	if err := requiredHex("unsignedTransaction", r.UnsignedTransaction); err != nil {
		return nil, err
	}
	return signerList(r.Signers)
}

func (r *CreateSigningPackageRequest) validate() error {
	if err := requiredHex("unsignedTransaction", r.UnsignedTransaction); err != nil {
		return err
	}
	return hexList("commitments", r.Commitments)
}

func (r *CreateSignatureShareRequest) validate() ([]string, error) {
	if err := requiredHex("signingPackage", r.SigningPackage); err != nil {
		return nil, err
	}
	if err := requiredHex("unsignedTransaction", r.UnsignedTransaction); err != nil {
		return nil, err
	}
	return signerList(r.Signers)
}

func (r *AggregateSignatureSharesRequest) validate() error {
	if err := requiredHex("signingPackage", r.SigningPackage); err != nil {
		return err
	}
	if err := requiredHex("unsignedTransaction", r.UnsignedTransaction); err != nil {
		return err
	}
	return hexList("signatureShares", r.SignatureShares)
}
