// Command interview runs a mock interview from the terminal. It drives
// the session state machine against a running interview service: start
// a session for a role, answer questions one by one, read the feedback
// and finish with the aggregate report.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"prepmate/internal/client"
	"prepmate/internal/config"
	"prepmate/internal/session"
)

func main() {
	role := flag.String("role", "", "target role for the interview (required)")
	difficulty := flag.String("difficulty", "", "question difficulty: easy, medium or hard")
	topics := flag.String("topics", "", "comma-separated topic list")
	serverURL := flag.String("server", "", "interview service base URL")
	deleteOnExit := flag.Bool("delete-on-exit", false, "delete the session server-side when the interview ends")
	flag.Parse()

	if strings.TrimSpace(*role) == "" {
		fmt.Fprintln(os.Stderr, "usage: interview -role \"Software Engineer\" [-difficulty medium] [-topics go,systems]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *serverURL != "" {
		cfg.Client.BaseURL = *serverURL
	}

	var opts []session.Option
	if *difficulty != "" {
		opts = append(opts, session.WithDifficulty(*difficulty))
	}
	if *topics != "" {
		opts = append(opts, session.WithTopics(splitTopics(*topics)))
	}

	api := client.New(cfg.Client)
	machine := session.NewMachine(api, opts...)
	ctx := context.Background()

	fmt.Printf("Starting interview for %q...\n", *role)
	if err := machine.Start(ctx, *role); err != nil {
		log.Fatalf("Failed to start interview: %v", err)
	}
	fmt.Printf("Session %s started with %d questions.\n\n", machine.SessionID(), len(machine.Questions()))

	reader := bufio.NewReader(os.Stdin)
	for !machine.Completed() {
		question := machine.CurrentQuestion()
		if question == nil {
			break
		}
		fmt.Printf("Question %d: %s\n", machine.CurrentIndex()+1, question.Text)

		answer, err := readAnswer(reader)
		if err != nil {
			log.Fatalf("Failed to read answer: %v", err)
		}
		if answer == "" {
			fmt.Println("Empty answer, try again.")
			continue
		}

		if err := machine.Submit(ctx, answer); err != nil {
			fmt.Fprintf(os.Stderr, "Submit failed: %v\n", err)
			continue
		}
		printFeedback(machine)

		// No next question and nothing left to walk means the service
		// could not extend the session; stop rather than re-prompt the
		// question that was just answered.
		if !machine.Completed() && !machine.Advance() {
			fmt.Fprintln(os.Stderr, "The service provided no further questions; ending the interview early.")
			break
		}
	}

	fmt.Println("Interview complete. Fetching summary...")
	if err := machine.LoadSummary(ctx); err != nil {
		log.Fatalf("Failed to load summary: %v", err)
	}
	printSummary(machine)

	if *deleteOnExit {
		if _, err := api.DeleteSession(ctx, machine.SessionID()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete session: %v\n", err)
		} else {
			fmt.Println("Session deleted.")
		}
	}
}

func splitTopics(raw string) []string {
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}

// readAnswer reads lines until an empty line ends the answer.
func readAnswer(reader *bufio.Reader) (string, error) {
	fmt.Print("Your answer (finish with an empty line):\n> ")
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		fmt.Print("> ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func printFeedback(machine *session.Machine) {
	fb := machine.LastFeedback()
	if fb == nil {
		return
	}
	fmt.Printf("\nScore: %.1f/10\n", fb.Score)
	if fb.Verdict != "" {
		fmt.Printf("Verdict: %s\n", fb.Verdict)
	}
	fmt.Printf("Feedback: %s\n", fb.Text)
	printList("Strengths", fb.Strengths)
	printList("Weaknesses", fb.Weaknesses)
	printList("Suggestions", fb.Suggestions)
	fmt.Println()
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func printSummary(machine *session.Machine) {
	summary := machine.Summary()
	if summary == nil {
		return
	}
	fmt.Println("\n=== Interview Summary ===")
	fmt.Printf("Role: %s\n", summary.Role)
	if summary.Difficulty != "" {
		fmt.Printf("Difficulty: %s\n", summary.Difficulty)
	}
	fmt.Printf("Questions answered: %d/%d\n", summary.TotalAnswers, summary.TotalQuestions)
	fmt.Printf("Average score: %.1f/10\n", summary.AverageScore)
	for i, entry := range summary.Entries {
		fmt.Printf("\n%d. %s\n", i+1, entry.Question)
		if !entry.Answered {
			fmt.Println("   (not answered)")
			continue
		}
		fmt.Printf("   Score: %.1f\n", entry.Score)
		if entry.Feedback != "" {
			fmt.Printf("   Feedback: %s\n", entry.Feedback)
		}
	}
	if summary.OverallFeedback != "" {
		fmt.Printf("\nOverall: %s\n", summary.OverallFeedback)
	}
}
