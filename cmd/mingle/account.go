package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mediamingle/mingle/internal/session"
	"github.com/mediamingle/mingle/internal/userdata"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your mingle account",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		email, err := promptLine(reader, "Email: ", loginEmail)
		if err != nil {
			return err
		}
		password, err := readPassword(reader)
		if err != nil {
			return err
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()

		user, err := svc.session.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", user.Username)
		return nil
	},
}

var signupFlags struct {
	email    string
	username string
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a mingle account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		email, err := promptLine(reader, "Email: ", signupFlags.email)
		if err != nil {
			return err
		}
		username, err := promptLine(reader, "Username: ", signupFlags.username)
		if err != nil {
			return err
		}
		password, err := readPassword(reader)
		if err != nil {
			return err
		}
		if email == "" || username == "" || password == "" {
			return fmt.Errorf("email, username and password are required")
		}

		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()

		user, err := svc.session.Signup(cmd.Context(), email, username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Account created. Signed in as %s\n", user.Username)
		return nil
	},
}

// promptLine returns preset when given, otherwise asks for a line
func promptLine(reader *bufio.Reader, prompt, preset string) (string, error) {
	if v := strings.TrimSpace(preset); v != "" {
		return v, nil
	}
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(strings.TrimSuffix(prompt, ": ")), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo on a terminal and a plain line otherwise
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print("Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()

		user, err := svc.session.Me(cmd.Context())
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println("Not signed in")
			return nil
		}
		if err != nil {
			return err
		}
		return render(user, func() {
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			fmt.Printf("Member since %s\n", humanize.Time(user.CreatedAt.Time))
		})
	},
}

var profileRatings int

var profileCmd = &cobra.Command{
	Use:   "profile <username>",
	Short: "Show a public profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		p, err := svc.social.Profile(ctx, args[0])
		if err != nil {
			return err
		}

		following := false
		if svc.session.Authenticated() {
			if following, err = svc.social.IsFollowing(ctx, p.Username); err != nil {
				logger.Warn("failed to check follow state", "user", p.Username, "error", err)
			}
		}
		if err := printProfile(p, following); err != nil {
			return err
		}

		if profileRatings <= 0 || outFormat != "text" {
			return nil
		}
		list, err := svc.social.UserRatings(ctx, p.Username, profileRatings)
		if err != nil {
			return err
		}
		fmt.Println()
		return printRatings(list)
	},
}

// followCmd and unfollowCmd share this body
func setFollow(follow bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			op := svc.social.Unfollow
			if follow {
				op = svc.social.Follow
			}
			now, err := op(ctx, args[0])
			if err != nil {
				return err
			}
			if now {
				fmt.Printf("Following %s\n", args[0])
			} else {
				fmt.Printf("No longer following %s\n", args[0])
			}
			return nil
		})
	}
}

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE:  setFollow(true),
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <username>",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE:  setFollow(false),
}

var followersCmd = &cobra.Command{
	Use:   "followers",
	Short: "List who follows you",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			list, err := svc.social.Followers(ctx)
			if err != nil {
				return err
			}
			return printFollowers(list)
		})
	},
}

var followingCmd = &cobra.Command{
	Use:   "following",
	Short: "List who you follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			list, err := svc.social.Following(ctx)
			if err != nil {
				return err
			}
			return printFollowers(list)
		})
	},
}

var feedLimit int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show recent activity of people you follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			list, err := svc.social.Feed(ctx, feedLimit)
			if err != nil {
				return err
			}
			return render(list, func() { printFeed(list) })
		})
	},
}

func printFeed(list []userdata.Activity) {
	if len(list) == 0 {
		fmt.Println("Nothing new from people you follow.")
		return
	}
	for _, a := range list {
		line := a.Username + " " + strings.ReplaceAll(a.ActivityType, "_", " ")
		if a.ContentTitle != nil {
			line += " " + *a.ContentTitle
		}
		if a.RatingValue != nil {
			line += fmt.Sprintf(" (%.1f)", *a.RatingValue)
		}
		if a.TargetUsername != nil {
			line += " " + *a.TargetUsername
		}
		fmt.Printf("%s  %s\n", line, humanize.Time(a.CreatedAt.Time))
	}
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupFlags.email, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupFlags.username, "username", "", "public username")
	profileCmd.Flags().IntVar(&profileRatings, "ratings", 5, "how many recent ratings to list")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "how many activities to show")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd, profileCmd, followCmd, unfollowCmd,
		followersCmd, followingCmd, feedCmd)
}
