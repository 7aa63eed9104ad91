package models

// Category is a sustainability-goal (ODS/STG) bucket companies are filed
// under. It is created on first use by name.
type Category struct {
	ID                int64  `json:"stg_id"`
	Name              string `json:"name"`
	CompaniesQuantity int64  `json:"companies_quantity"`
}
