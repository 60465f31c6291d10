package values

import (
	"fmt"
	"strings"
)

// KeyGenerator hands out message keys for a single conversion.
// Implementations are owned by one conversion call and need not be safe for
// concurrent use.
type KeyGenerator interface {
	Next() string
}

// SequentialKeys produces "<prefix>-0001", "<prefix>-0002", ...
type SequentialKeys struct {
	prefix string
	n      int
}

// NewSequentialKeys creates a generator. An empty prefix defaults to "msg".
func NewSequentialKeys(prefix string) *SequentialKeys {
	if prefix == "" {
		prefix = "msg"
	}
	return &SequentialKeys{prefix: prefix}
}

// Next returns the next key.
func (k *SequentialKeys) Next() string {
	k.n++
	return fmt.Sprintf("%s-%04d", k.prefix, k.n)
}

// TenantPolicy decides what happens to explicit tenant references.
type TenantPolicy struct {
	// DefaultTenant is the tenant documents are deployed into. Empty means
	// single-tenant deployment.
	DefaultTenant string
}

// IsDefault reports whether tenant resolves to the deployment's own tenant.
func (p TenantPolicy) IsDefault(tenant string) bool {
	tenant = strings.TrimSpace(tenant)
	if tenant == "" {
		return true
	}
	return p.DefaultTenant != "" && tenant == p.DefaultTenant
}
