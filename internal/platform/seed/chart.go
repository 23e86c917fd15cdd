// Package seed loads a chart of accounts from YAML into the account registry.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"gopkg.in/yaml.v3"
)

// ChartAccount is one account in a chart file. Parent refers to another account's code.
type ChartAccount struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Parent      string `yaml:"parent,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Chart is the top-level document of a chart file.
type Chart struct {
	Accounts []ChartAccount `yaml:"accounts"`
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// LoadChart reads and parses the chart file at path.
func LoadChart(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return ParseChart(data)
}

// ParseChart decodes a chart document, rejecting unknown fields, bad types and duplicate codes.
func ParseChart(data []byte) (*Chart, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var chart Chart
	if err := dec.Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	seen := make(map[string]struct{}, len(chart.Accounts))
	for i, acc := range chart.Accounts {
		code := strings.TrimSpace(acc.Code)
		if code == "" || strings.TrimSpace(acc.Name) == "" {
			return nil, fmt.Errorf("chart account %d: code and name are required", i+1)
		}
		if _, ok := domain.ParseAccountType(acc.Type); !ok {
			return nil, fmt.Errorf("chart account %s: unknown type %q", code, acc.Type)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("chart account %s: duplicate code", code)
		}
		seen[code] = struct{}{}
	}
	return &chart, nil
}

// Apply creates every chart account whose code has no active holder yet.
// Re-running it against the same registry creates nothing.
func Apply(ctx context.Context, accounts portssvc.AccountSvcFacade, chart *Chart, actorID string) (Result, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	var res Result
	idsByCode := make(map[string]string, len(chart.Accounts))

	for _, acc := range chart.Accounts {
		code := strings.TrimSpace(acc.Code)

		existing, err := accounts.GetAccountByCode(ctx, code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return res, fmt.Errorf("failed to look up chart account %s: %w", code, err)
		}
		if err == nil && existing.IsActive {
			idsByCode[code] = existing.AccountID
			res.Skipped++
			continue
		}

		accountType, _ := domain.ParseAccountType(acc.Type)
		req := dto.CreateAccountRequest{
			Code:        code,
			Name:        acc.Name,
			AccountType: accountType,
			Description: acc.Description,
		}
		if parentCode := strings.TrimSpace(acc.Parent); parentCode != "" {
			parentID, err := resolveParent(ctx, accounts, idsByCode, parentCode)
			if err != nil {
				return res, fmt.Errorf("chart account %s: %w", code, err)
			}
			req.ParentAccountID = &parentID
		}

		created, err := accounts.CreateAccount(ctx, req, actorID)
		if err != nil {
			return res, fmt.Errorf("failed to create chart account %s: %w", code, err)
		}
		idsByCode[code] = created.AccountID
		res.Created++
	}

	logger.Info("Chart of accounts applied", slog.Int("created", res.Created), slog.Int("skipped", res.Skipped))
	return res, nil
}

func resolveParent(ctx context.Context, accounts portssvc.AccountReaderSvc, idsByCode map[string]string, parentCode string) (string, error) {
	if id, ok := idsByCode[parentCode]; ok {
		return id, nil
	}
	parent, err := accounts.GetAccountByCode(ctx, parentCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: parent code %s not found", apperrors.ErrInvalidParent, parentCode)
		}
		return "", err
	}
	return parent.AccountID, nil
}
