package cli

import (
	"fmt"

	"github.com/diillson/aws-cost-notifier-go/pkg/console"
	"github.com/diillson/aws-cost-notifier-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
          /$$$$$$  /$$      /$$  /$$$$$$           /$$$$$$                        /$$
         /$$__  $$| $$  /$ | $$ /$$__  $$         /$$__  $$                      | $$
        | $$  \ $$| $$ /$$$| $$| $$  \__/        | $$  \__/  /$$$$$$   /$$$$$$$ /$$$$$$
        | $$$$$$$$| $$/$$ $$ $$|  $$$$$$         | $$       /$$__  $$ /$$_____/|_  $$_/
        | $$__  $$| $$$$_  $$$$ \____  $$        | $$      | $$  \ $$|  $$$$$$   | $$
        | $$  | $$| $$$/ \  $$$ /$$  \ $$        | $$    $$| $$  | $$ \____  $$  | $$ /$$
        | $$  | $$| $$/   \  $$|  $$$$$$/        |  $$$$$$/|  $$$$$$/ /$$$$$$$/  |  $$$$/
        |__/  |__/|__/     \__/ \______/          \______/  \______/ |_______/    \___/
        `
	fmt.Println(console.BoldRed(banner))
	fmt.Println(console.BrightBlue(fmt.Sprintf("AWS Cost Notifier CLI (v%s)", version.FormatVersion())))
}
