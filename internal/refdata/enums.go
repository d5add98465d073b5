package refdata

import "strings"

// DeviceCategory is the closed set of end-user device kinds the catalog knows.
type DeviceCategory string

const (
	DeviceSmartphone DeviceCategory = "smartphone"
	DeviceLaptop     DeviceCategory = "laptop"
	DeviceDesktop    DeviceCategory = "desktop"
	DeviceTablet     DeviceCategory = "tablet"
)

// DeviceCategories returns every category in display order.
func DeviceCategories() []DeviceCategory {
	return []DeviceCategory{DeviceSmartphone, DeviceLaptop, DeviceDesktop, DeviceTablet}
}

// Label returns the human-readable name of the category.
func (c DeviceCategory) Label() string {
	switch c {
	case DeviceSmartphone:
		return "Smartphone"
	case DeviceLaptop:
		return "Laptop"
	case DeviceDesktop:
		return "Desktop"
	case DeviceTablet:
		return "Tablet"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known categories.
func (c DeviceCategory) Valid() bool {
	switch c {
	case DeviceSmartphone, DeviceLaptop, DeviceDesktop, DeviceTablet:
		return true
	default:
		return false
	}
}

// ParseDeviceCategory converts a raw key (case-insensitive) into a DeviceCategory.
// Unknown keys return a *LookupError wrapping ErrUnknownLookupKey.
func ParseDeviceCategory(s string) (DeviceCategory, error) {
	c := DeviceCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewLookupError("device category", s)
	}
	return c, nil
}

// CloudProvider is the closed set of datacenter operators in the catalog.
// The string values are the short keys used by the input forms.
type CloudProvider string

const (
	ProviderAzure         CloudProvider = "azure"
	ProviderGCP           CloudProvider = "gcp"
	ProviderAWS           CloudProvider = "aws"
	ProviderIBM           CloudProvider = "ibm"
	ProviderIronMountain  CloudProvider = "irm"
	ProviderMeta          CloudProvider = "meta"
	ProviderOracle        CloudProvider = "oracle"
	ProviderSAP           CloudProvider = "sap"
	ProviderEquinix       CloudProvider = "equ"
	ProviderDigitalRealty CloudProvider = "dgr"
)

// CloudProviders returns every provider in display order.
func CloudProviders() []CloudProvider {
	return []CloudProvider{
		ProviderAzure, ProviderGCP, ProviderAWS, ProviderIBM, ProviderIronMountain,
		ProviderMeta, ProviderOracle, ProviderSAP, ProviderEquinix, ProviderDigitalRealty,
	}
}

// DisplayName returns the company name shown to users.
func (p CloudProvider) DisplayName() string {
	switch p {
	case ProviderAzure:
		return "Microsoft"
	case ProviderGCP:
		return "Google"
	case ProviderAWS:
		return "AWS"
	case ProviderIBM:
		return "IBM"
	case ProviderIronMountain:
		return "Iron Mountain"
	case ProviderMeta:
		return "Meta"
	case ProviderOracle:
		return "Oracle"
	case ProviderSAP:
		return "SAP"
	case ProviderEquinix:
		return "Equinix"
	case ProviderDigitalRealty:
		return "Digital Realty"
	default:
		return string(p)
	}
}

// Valid reports whether p is one of the known providers.
func (p CloudProvider) Valid() bool {
	switch p {
	case ProviderAzure, ProviderGCP, ProviderAWS, ProviderIBM, ProviderIronMountain,
		ProviderMeta, ProviderOracle, ProviderSAP, ProviderEquinix, ProviderDigitalRealty:
		return true
	default:
		return false
	}
}

// ParseCloudProvider converts a short key (case-insensitive) into a CloudProvider.
func ParseCloudProvider(s string) (CloudProvider, error) {
	p := CloudProvider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", NewLookupError("cloud provider", s)
	}
	return p, nil
}
