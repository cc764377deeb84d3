package factory

// Reference lists the built-in generator draws from.
var (
	FirstNames = []string{
		"Ivan", "Mira", "Sofia", "Noah", "Lucas", "Elena", "Caleb", "Iris",
		"Mateo", "Lina", "Jonas", "Priya", "Levi", "Nina", "Ravi", "Sage",
	}
	LastNames = []string{
		"Ivanov", "Nguyen", "Hernandez", "Patel", "Okafor", "Silva",
		"Kowalski", "Ibrahim", "Williams", "Chen", "Miller", "Garcia",
		"D'Souza", "Novak", "Iversen", "Yamamoto",
	}
	Countries = []string{
		"US", "UK", "CA", "DE", "FR", "CH", "SG", "AE", "AU", "BR", "ZA",
	}
	PersonalDomains = []string{
		"gmail.com", "outlook.com", "yahoo.com", "icloud.com", "mail.ru",
		"yandex.ru", "gmx.com", "proton.me", "zoho.com",
	}
	CorporateDomains = []string{
		"hsbc.com", "citi.com", "bankofamerica.com", "revolut.com", "monzo.com",
		"stripe.com", "wise.com", "klarna.com", "paypal.com", "squareup.com",
		"visa.com", "mastercard.com", "neviswealth.com",
	}
	DocumentTypes = []string{
		"Passport Scan",
		"Residence Permit",
		"Income Statement",
		"Tax Declaration",
		"Bank Statement",
		"Employment Contract",
		"Proof of Address",
		"Utility Bill Receipt",
		"Investment Portfolio Snapshot",
		"Salary Slip",
	}
	Topics = []string{
		"identity verification",
		"residency confirmation",
		"source of funds",
		"wealth assessment",
		"AML screening",
		"transaction monitoring",
		"credit underwriting",
		"loan servicing",
		"KYC refresh",
		"PEP clearance",
	}
	SupportingItems = []string{
		"passport number",
		"national ID",
		"residence permit number",
		"utility account reference",
		"IBAN",
		"SWIFT BIC",
		"tax identification number",
		"employer reference",
		"rental contract",
		"health insurance certificate",
	}
	Regulations = []string{
		"EU AMLD6",
		"FATF Travel Rule",
		"GDPR",
		"FCA KYC Handbook",
		"MAS Notice 626",
		"FinCEN CDD Rule",
		"BaFin GwG",
		"HKMA AML Guideline",
		"ASIC RG 97",
		"FINTRAC PCMLTFA",
	}
	FinancialMetrics = []string{
		"monthly net income",
		"average balance",
		"cash inflow ratio",
		"card spending",
		"savings rate",
		"loan exposure",
		"mortgage balance",
		"investment contributions",
		"remittance volume",
		"FX turnover",
	}
	ActionItems = []string{
		"archive notarised copy in secure vault",
		"schedule in-person verification",
		"update customer risk profile",
		"notify compliance review queue",
		"refresh sanctions screening",
		"recalculate affordability metrics",
		"share summary with relationship manager",
		"request additional supporting invoices",
		"trigger electronic signature workflow",
		"confirm address change with postal service",
	}
	Quarters   = []string{"Q1", "Q2", "Q3", "Q4"}
	Currencies = []string{"USD", "EUR", "GBP", "CHF", "SGD", "AED"}
)

const (
	personalDomainRatio = 0.65
	domainVariantRatio  = 0.3

	minResidencyYear = 2010

	kpiMin    = 1.5
	kpiMax    = 95.0
	incomeMin = 4500.0
	incomeMax = 27500.0

	actionsPerDocument    = 3
	supportingPerDocument = 2
)
