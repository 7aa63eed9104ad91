package models

// Company is a registered organization. CategoryID and UserID are nullable
// foreign keys to stg and users.
type Company struct {
	ID         int64
	CNPJ       string
	Name       string
	Contact    string
	Address    string
	Sector     string
	IsPartner  bool
	CategoryID *int64
	UserID     *int64
}

// CompanyListing is one row of the companies listing, joined with the
// category name and the registrant's email. Both joins may come back NULL.
type CompanyListing struct {
	ID            int64   `json:"id"`
	CNPJ          string  `json:"cnpj"`
	Name          string  `json:"name"`
	Contact       string  `json:"contact"`
	Address       string  `json:"adress"`
	CompanySector string  `json:"company_sector"`
	IsPartner     int     `json:"is_partner"`
	ODSName       *string `json:"ods_name"`
	UserEmail     *string `json:"user_email"`
}
