package schema

// ACORD125 is the commercial-insurance applicant information field set
// the intake form is built from. Defined once at init and treated as
// process-wide constant configuration.
var ACORD125 = NewRegistry(acord125Fields())

var businessTypeOptions = []Option{
	{Value: "corporation", Label: "Corporation"},
	{Value: "llc", Label: "LLC"},
	{Value: "partnership", Label: "Partnership"},
	{Value: "sole_proprietorship", Label: "Sole Proprietorship"},
	{Value: "joint_venture", Label: "Joint Venture"},
	{Value: "trust", Label: "Trust"},
	{Value: "other", Label: "Other"},
}

var coverageTypeOptions = []Option{
	{Value: "general_liability", Label: "General Liability"},
	{Value: "property", Label: "Property"},
	{Value: "commercial_auto", Label: "Commercial Auto"},
	{Value: "workers_comp", Label: "Workers Compensation"},
	{Value: "umbrella", Label: "Umbrella"},
}

func acord125Fields() []FieldDef {
	return []FieldDef{
		{Key: "legal_name", Label: "Legal Business Name", Type: FieldText, Required: true, Validate: NonEmptyString},
		{Key: "dba", Label: "DBA / Trade Name", Type: FieldText, Validate: NonEmptyString},
		{Key: "business_type", Label: "Business Type", Type: FieldSelect, Required: true, Options: businessTypeOptions, Validate: OptionMember(businessTypeOptions)},
		{Key: "fein", Label: "FEIN", Type: FieldText, Required: true, Validate: ValidFEIN},
		{Key: "sic", Label: "SIC Code", Type: FieldText, Validate: ValidSIC},
		{Key: "naics", Label: "NAICS Code", Type: FieldText, Validate: ValidNAICS},
		{Key: "years_in_business", Label: "Years in Business", Type: FieldNumber, Validate: NonNegativeNumber},
		{Key: "annual_revenue", Label: "Annual Revenue", Type: FieldNumber, Required: true, Validate: NonNegativeNumber},
		{Key: "num_employees", Label: "Number of Employees", Type: FieldNumber, Validate: NonNegativeNumber},
		{Key: "website", Label: "Website", Type: FieldText, Validate: NonEmptyString},
		{Key: "contact_email", Label: "Contact Email", Type: FieldEmail, Required: true, Validate: ValidEmail},
		{Key: "contact_phone", Label: "Contact Phone", Type: FieldText, Required: true, Validate: ValidPhone},
		{Key: "mailing_address", Label: "Mailing Address", Type: FieldText, Required: true, Validate: NonEmptyString},
		{Key: "mailing_city", Label: "City", Type: FieldText, Required: true, Validate: NonEmptyString},
		{Key: "mailing_state", Label: "State", Type: FieldText, Required: true, Validate: ValidState},
		{Key: "mailing_zip", Label: "ZIP Code", Type: FieldText, Required: true, Validate: ValidZip},
		{Key: "nature_of_business", Label: "Nature of Business", Type: FieldTextarea, Required: true, Validate: NonEmptyString},
		{Key: "coverage_type", Label: "Coverage Type", Type: FieldSelect, Required: true, Options: coverageTypeOptions, Validate: OptionMember(coverageTypeOptions)},
		{Key: "effective_date", Label: "Effective Date", Type: FieldDate, Required: true, Validate: ValidISODate},
		{Key: "expiration_date", Label: "Expiration Date", Type: FieldDate, Validate: ValidISODate},
		{Key: "has_subsidiaries", Label: "Has Subsidiaries", Type: FieldCheckbox, Validate: ValidBool},
		{Key: "safety_program", Label: "Formal Safety Program", Type: FieldCheckbox, Validate: ValidBool},
		{Key: "non_owned_autos", Label: "Non-Owned Autos Used", Type: FieldCheckbox, Validate: ValidBool},
	}
}
