package datasource

import "povdash/pkg/contracts/domain"

// Indicator pairs a World Bank indicator code with its display name.
type Indicator struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// WorldBankIndicators lists the poverty indicators served by the World
// Bank source. SI.POV.DDAY is the headline extreme-poverty headcount.
var WorldBankIndicators = []Indicator{
	{Code: "SI.POV.DDAY", Name: "Poverty headcount ratio at $2.15 a day (2017 PPP)"},
	{Code: "SI.POV.LMIC", Name: "Poverty headcount ratio at $3.65 a day (2017 PPP)"},
	{Code: "SI.POV.UMIC", Name: "Poverty headcount ratio at $6.85 a day (2017 PPP)"},
	{Code: "SI.POV.GINI", Name: "Gini index"},
	{Code: "NY.GDP.PCAP.PP.CD", Name: "GDP per capita, PPP (current international $)"},
}

// DefaultIndicatorCode is used when a request names no indicator.
const DefaultIndicatorCode = "SI.POV.DDAY"

// IndiaIndicators lists the state-level socioeconomic indicators served
// by the India source.
var IndiaIndicators = []string{
	"Poverty Rate (%)",
	"Multidimensional Poverty Index (MPI)",
	"Per Capita Income (₹)",
	"Unemployment Rate (%)",
	"Literacy Rate (%)",
}

// IndianStates covers states and union territories.
var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand",
	"Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra", "Manipur",
	"Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
	"Uttar Pradesh", "Uttarakhand", "West Bengal", "Delhi", "Jammu & Kashmir",
	"Ladakh", "Puducherry", "Chandigarh", "Dadra & Nagar Haveli and Daman & Diu",
	"Lakshadweep", "Andaman & Nicobar Islands",
}

// AreaTypes enumerates the Rural/Urban classification, with "All"
// meaning no restriction.
var AreaTypes = []string{domain.AreaTypeAll, "Rural", "Urban"}

// DefaultCountries is the country panel served when a request names no
// countries (ISO-3 codes).
var DefaultCountries = []string{
	"USA", "IND", "CHN", "BRA", "NGA", "IDN", "PAK", "BGD",
	"RUS", "MEX", "JPN", "ETH", "PHL", "EGY", "VNM", "DEU",
	"IRN", "TUR", "COD", "THA", "GBR", "FRA", "ITA", "ZAF", "KEN",
}

// countryMetadata is the reference panel returned by LoadCountryMetadata.
var countryMetadata = []domain.CountryMeta{
	{CountryCode: "USA", Name: "United States", Region: "North America", IncomeLevel: "High income"},
	{CountryCode: "IND", Name: "India", Region: "South Asia", IncomeLevel: "Lower middle income"},
	{CountryCode: "CHN", Name: "China", Region: "East Asia & Pacific", IncomeLevel: "Upper middle income"},
	{CountryCode: "BRA", Name: "Brazil", Region: "Latin America & Caribbean", IncomeLevel: "Upper middle income"},
	{CountryCode: "NGA", Name: "Nigeria", Region: "Sub-Saharan Africa", IncomeLevel: "Lower middle income"},
	{CountryCode: "IDN", Name: "Indonesia", Region: "East Asia & Pacific", IncomeLevel: "Lower middle income"},
	{CountryCode: "PAK", Name: "Pakistan", Region: "South Asia", IncomeLevel: "Lower middle income"},
	{CountryCode: "BGD", Name: "Bangladesh", Region: "South Asia", IncomeLevel: "Lower middle income"},
	{CountryCode: "RUS", Name: "Russia", Region: "Europe & Central Asia", IncomeLevel: "Upper middle income"},
	{CountryCode: "MEX", Name: "Mexico", Region: "Latin America & Caribbean", IncomeLevel: "Upper middle income"},
}
