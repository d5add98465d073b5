package refdata

import (
	"errors"
	"fmt"
)

// Validate reports structural problems in the catalog: empty tables and
// device categories without a spec. Row-level problems were already filtered
// out during parsing, so a nil result means every table is usable.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.models) == 0 {
		errs = append(errs, fmt.Errorf("%s: no foundation models loaded", fileModels))
	}
	if len(c.datacenters) == 0 {
		errs = append(errs, fmt.Errorf("%s: no datacenters loaded", fileDatacenters))
	}
	if len(c.tasks) == 0 {
		errs = append(errs, fmt.Errorf("%s: no AI tasks loaded", fileTasks))
	}
	for _, category := range DeviceCategories() {
		if _, ok := c.devices[category]; !ok {
			errs = append(errs, fmt.Errorf("%s: missing spec for %s", fileDevices, category))
		}
	}
	for _, provider := range CloudProviders() {
		if len(c.Datacenters(provider)) == 0 {
			errs = append(errs, fmt.Errorf("%s: no regions for provider %s", fileDatacenters, provider.DisplayName()))
		}
	}

	return errors.Join(errs...)
}
