package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	applogger "github.com/voluntree/voluntree/internal/logger"
	"github.com/voluntree/voluntree/internal/profile"
	"github.com/voluntree/voluntree/internal/state"
)

const (
	PromptShowProfile = "Show profile"
	PromptEditName    = "Edit name"
	PromptEditEmail   = "Edit email"
	PromptEditStory   = "Edit story"
	PromptAddInterest = "Add interest"
	PromptAddSkill    = "Add skill"
	PromptDone        = "Done"
)

var errExit = errors.New("exit requested")

var profilePrompt = promptui.Select{
	Label: "Profile",
	Items: []string{
		PromptShowProfile, PromptEditName, PromptEditEmail, PromptEditStory,
		PromptAddInterest, PromptAddSkill, PromptDone,
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit the stored volunteer profile",
	Run: func(_ *cobra.Command, _ []string) {
		editProfile()
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func editProfile() {
	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := state.Open(config.State.File)
	if err != nil {
		logger.Fatal("opening the state store", zap.Error(err))
	}
	defer store.Close()

	session := state.NewSession(store, logger)

	for {
		_, action, err := profilePrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleProfileAction(action, session, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Warn("profile update failed", zap.Error(err))
		}
	}
}

func handleProfileAction(action string, session *state.Session, logger *zap.Logger) error {
	switch action {
	case PromptShowProfile:
		pretty, _ := json.MarshalIndent(session.Profile(), "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptEditName:
		return editField(session, "Name", func(p *profile.Profile, value string) { p.Name = value })
	case PromptEditEmail:
		return editField(session, "Email", func(p *profile.Profile, value string) { p.Email = value })
	case PromptEditStory:
		return editField(session, "Story", func(p *profile.Profile, value string) { p.Story = value })
	case PromptAddInterest:
		return addTag(session, "Interest", func(interest string) {
			session.ApplyTags([]string{interest}, nil)
		})
	case PromptAddSkill:
		return addTag(session, "Skill", func(skill string) {
			session.ApplyTags(nil, []string{skill})
		})
	case PromptDone:
		logger.Info("profile saved")
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func editField(session *state.Session, label string, set func(*profile.Profile, string)) error {
	current := session.Profile()

	prompt := promptui.Prompt{Label: label, Default: defaultFor(label, current)}
	value, err := prompt.Run()
	if err != nil {
		return err
	}

	set(&current, strings.TrimSpace(value))
	_, err = session.UpdateProfile(current)
	return err
}

func addTag(session *state.Session, label string, apply func(string)) error {
	prompt := promptui.Prompt{Label: label}
	value, err := prompt.Run()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	apply(value)
	return nil
}

func defaultFor(label string, p profile.Profile) string {
	switch label {
	case "Name":
		return p.Name
	case "Email":
		return p.Email
	case "Story":
		return p.Story
	}
	return ""
}
