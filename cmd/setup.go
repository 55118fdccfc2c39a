package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Quizreel",
	Long:  `Configure API keys, create directories, and set up the environment for Quizreel.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Quizreel Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Checking tools", checkTools},
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func checkTools() error {
	return runWithSpinner("Checking for ffmpeg", func() error {
		if !commandExists("ffmpeg") {
			return fmt.Errorf("ffmpeg not found - install it from https://ffmpeg.org/download.html")
		}
		return nil
	})
}

func createDirectories() error {
	dirs := []string{
		"assets/backgrounds",
		"assets/fonts",
		"assets/music",
		"assets/icons",
		"assets/option_images",
		"data",
		"output/renders",
		"output/cache",
		"output/state",
		"output/archive",
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureYouTube(env); err != nil {
		return err
	}

	if err := configureFacebook(env); err != nil {
		return err
	}

	if err := configureOptionalKeys(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureYouTube(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup YouTube OAuth?").
		Description("Required for uploading quiz videos to YouTube Shorts").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	fmt.Println(infoStyle.Render(`
To create OAuth credentials:
1. Go to https://console.cloud.google.com/apis/credentials
2. Click "Create Credentials" → "OAuth client ID"
3. Choose "Desktop app" as application type
4. Copy the Client ID and Client Secret
`))

	var clientID, clientSecret string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("YouTube Client ID").
				Value(&clientID),
			huh.NewInput().
				Title("YouTube Client Secret").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)

	if clientID != "" {
		env["YOUTUBE_CLIENT_ID"] = clientID
	}
	if clientSecret != "" {
		env["YOUTUBE_CLIENT_SECRET"] = clientSecret
	}

	if clientID != "" && clientSecret != "" {
		var authenticate bool
		if err := huh.NewConfirm().
			Title("Authenticate with YouTube now?").
			Description("Prints an authorization URL to complete the OAuth flow").
			Value(&authenticate).
			Run(); err != nil {
			return err
		}

		if authenticate {
			if err := runYouTubeAuth(clientID, clientSecret, youtubeTokenPath); err != nil {
				fmt.Println(warnStyle.Render(fmt.Sprintf("OAuth flow failed: %v", err)))
				fmt.Println(infoStyle.Render("You can retry later with: quizreel auth youtube"))
			}
		}
	}

	return nil
}

func configureFacebook(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Facebook Reels?").
		Description("Upload quiz videos to a Facebook page (optional)").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	fmt.Println(infoStyle.Render(`
To get page credentials:
1. Go to https://developers.facebook.com/apps
2. Create an app with the pages_manage_posts permission
3. Generate a long-lived page access token
`))

	var pageID, pageToken string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Facebook Page ID").
				Value(&pageID),
			huh.NewInput().
				Title("Page Access Token").
				EchoMode(huh.EchoModePassword).
				Value(&pageToken),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	pageID = strings.TrimSpace(pageID)
	pageToken = strings.TrimSpace(pageToken)

	if pageID != "" {
		env["META_PAGE_ID"] = pageID
	}
	if pageToken != "" {
		env["META_PAGE_ACCESS_TOKEN"] = pageToken
	}

	return nil
}

func configureOptionalKeys(env map[string]string) error {
	if err := configureGroq(env); err != nil {
		return err
	}

	return configureArchive(env)
}

func configureGroq(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Groq titles?").
		Description("Generate video titles with an LLM (optional, falls back to templates)").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	var apiKey string
	if err := huh.NewInput().
		Title("GROQ API Key").
		Description("https://console.groq.com/keys").
		Value(&apiKey).
		Run(); err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		env["GROQ_API_KEY"] = apiKey
	}
	return nil
}

func configureArchive(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup GCS archive?").
		Description("Mirror rendered videos to a Cloud Storage bucket (optional)").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	var bucket string
	if err := huh.NewInput().
		Title("GCS Bucket").
		Placeholder("my-quizreel-archive").
		Value(&bucket).
		Run(); err != nil {
		return err
	}

	bucket = strings.TrimSpace(bucket)
	if bucket != "" {
		env["GCS_BUCKET"] = bucket
	}
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		"YOUTUBE_CLIENT_ID",
		"YOUTUBE_CLIENT_SECRET",
		"META_PAGE_ID",
		"META_PAGE_ACCESS_TOKEN",
		"GROQ_API_KEY",
		"GCS_BUCKET",
	}

	for _, key := range order {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Add background images to: assets/backgrounds/")
	fmt.Println("  2. Add fonts to: assets/fonts/ and a logo to: assets/logo.png")
	fmt.Println("  3. Add questions to: data/questions.json")
	fmt.Println("  4. Run: quizreel once --dry-run")
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}

const youtubeTokenPath = "./youtube_token.json"
