package session

import (
	"testing"

	"ohsurveil/testutil"
)

func TestNoDirectInfraImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "go through core and blob")
}
