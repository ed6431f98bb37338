package runner

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/lanscanner/pkg/version"
)

const banner = `
   __                                                 
  / /___ _____  ______________ _____  ____  ___  _____
 / / __ '/ __ \/ ___/ ___/ __ '/ __ \/ __ \/ _ \/ ___/
/ / /_/ / / / (__  ) /__/ /_/ / / / / / / /  __/ /    
\_\__,_/_/ /_/____/\___/\__,_/_/ /_/_/ /_/\___/_/     
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\t%s\n\n", version.GetVersion())
}
