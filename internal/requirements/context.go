package requirements

import (
	"strconv"
	"strings"

	"github.com/mrz1836/forge/internal/domain"
)

// Context field keys sent with every role request.
const (
	FieldAppType         = "app_type"
	FieldDesign          = "design"
	FieldFeatures        = "features"
	FieldStack           = "stack"
	FieldDatabaseProduct = "database_product"
	FieldPaymentProvider = "payment_provider"
	FieldComplexity      = "complexity"
	FieldDocuments       = "documents"
)

// ContextFields flattens a record into the string fields carried by each role
// request. Unset values are omitted.
func ContextFields(r domain.RequirementRecord) map[string]string {
	fields := make(map[string]string, 8)
	set := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}

	set(FieldAppType, r.AppType.String())
	set(FieldDesign, r.Design.String())
	features := r.FeatureList()
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	set(FieldFeatures, strings.Join(names, ", "))
	set(FieldStack, strings.Join(r.Stack, ", "))
	set(FieldDatabaseProduct, r.DatabaseProduct)
	set(FieldPaymentProvider, r.PaymentProvider)
	set(FieldComplexity, r.Complexity.String())
	if len(r.Documents) > 0 {
		set(FieldDocuments, strconv.Itoa(len(r.Documents)))
	}
	return fields
}
