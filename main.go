package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/passvault/passvault/cmd"
	"github.com/passvault/passvault/internal/genpass"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "gen":
		runGen(os.Args[2:])
	case "set":
		runSet(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "ls", "list":
		runLs(os.Args[2:])
	case "rm":
		runRm(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "diff":
		runDiff(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// commonFlags registers the flags every command shares and returns an
// Options bound to them; read it after fs.Parse.
func commonFlags(fs *flag.FlagSet) *cmd.Options {
	opts := &cmd.Options{}
	fs.StringVar(&opts.Dir, "dir", ".", "Vault directory")
	fs.BoolVar(&opts.UseKeyring, "keyring", false, "Use the key stored in the OS keyring")
	fs.BoolVar(&opts.NoHistory, "no-history", false, "Do not record a snapshot on save")
	return opts
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	opts := commonFlags(fs)
	length := fs.Int("l", genpass.DefaultLength, "Password length")
	upper := fs.Bool("upper", true, "Include uppercase letters")
	lower := fs.Bool("lower", true, "Include lowercase letters")
	digits := fs.Bool("digits", true, "Include digits")
	symbols := fs.Bool("symbols", true, "Include symbols")
	saveLabel := fs.String("save", "", "Store the password under this label")
	copyOut := fs.Bool("copy", false, "Copy the password to the clipboard")
	quiet := fs.Bool("quiet", false, "Print only the password")
	parse(fs, args)

	classes := genpass.Options{
		Upper:   *upper,
		Lower:   *lower,
		Digits:  *digits,
		Symbols: *symbols,
	}
	cmd.Gen(*opts, *length, classes, *copyOut, *quiet, *saveLabel)
}

func runSet(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	opts := commonFlags(fs)
	password := fs.String("p", "", "Password to store (prompts when absent)")
	parse(fs, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: passvault set [flags] <label>")
		os.Exit(1)
	}
	cmd.Set(*opts, fs.Arg(0), *password)
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	opts := commonFlags(fs)
	parse(fs, args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: passvault get [flags] <label>")
		os.Exit(1)
	}
	cmd.Get(*opts, fs.Arg(0))
}

func runLs(args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	opts := commonFlags(fs)
	parse(fs, args)

	cmd.Ls(*opts)
}

func runRm(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	opts := commonFlags(fs)
	parse(fs, args)

	cmd.Rm(*opts, fs.Args())
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	password := fs.String("p", "", "Password to check (prompts when absent)")
	parse(fs, args)

	cmd.Check(*password)
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	opts := commonFlags(fs)
	parse(fs, args)

	cmd.Status(*opts)
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	opts := commonFlags(fs)
	keep := fs.Int("keep", -1, "Prune history down to the newest N snapshots")
	parse(fs, args)

	cmd.History(*opts, *keep)
}

func runDiff(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	opts := commonFlags(fs)
	from := fs.Uint64("from", 0, "Snapshot sequence to compare from (0 = latest)")
	to := fs.Uint64("to", 0, "Snapshot sequence to compare to (0 = current vault)")
	parse(fs, args)

	cmd.Diff(*opts, *from, *to)
}

func runKeyring(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passvault keyring <save|status|delete>")
		os.Exit(1)
	}
	action := args[0]

	fs := flag.NewFlagSet("keyring", flag.ExitOnError)
	opts := commonFlags(fs)
	parse(fs, args[1:])

	switch action {
	case "save":
		cmd.KeyringSave(*opts)
	case "status":
		cmd.KeyringStatus(*opts)
	case "delete":
		cmd.KeyringDelete(*opts)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring action: %s\n", action)
		fmt.Fprintln(os.Stderr, "Usage: passvault keyring <save|status|delete>")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("passvault - Local encrypted password vault")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  passvault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  gen       Generate a random password")
	fmt.Println("  set       Store a password under a label")
	fmt.Println("  get       Print the password for a label")
	fmt.Println("  ls        List stored labels")
	fmt.Println("  rm        Remove labels from the vault")
	fmt.Println("  check     Score a password's strength")
	fmt.Println("  status    Show vault, key and history status")
	fmt.Println("  history   List or prune vault snapshots")
	fmt.Println("  diff      Compare vault snapshots by label")
	fmt.Println("  keyring   Manage the vault key in the OS keyring")
	fmt.Println("  help      Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  passvault gen -l 20 -save email  # Generate and store")
	fmt.Println("  passvault set github             # Store, prompting for the password")
	fmt.Println("  passvault get github             # Print it back")
	fmt.Println("  passvault status                 # Check vault state")
	fmt.Println()
	fmt.Println("Use 'passvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "gen":
		fmt.Println("passvault gen [-l N] [-upper] [-lower] [-digits] [-symbols] [-save LABEL] [-copy] [-quiet]")
		fmt.Println()
		fmt.Println("Generates a random password and prints it to stdout, followed by")
		fmt.Println("a strength estimate on stderr. All character classes are enabled")
		fmt.Println("by default; disable one with -upper=false and friends.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -l N          Password length (1-72, default 12)")
		fmt.Println("  -save LABEL   Also store the password in the vault under LABEL")
		fmt.Println("  -copy         Copy the password to the clipboard")
		fmt.Println("  -quiet        Print only the password")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passvault gen                       # 12 characters, all classes")
		fmt.Println("  passvault gen -l 32 -symbols=false  # Long, no punctuation")
		fmt.Println("  passvault gen -save email -copy     # Store and copy in one step")
	case "set":
		fmt.Println("passvault set [-p PASSWORD] <label>")
		fmt.Println()
		fmt.Println("Stores a password under a label, replacing any previous value.")
		fmt.Println("Without -p the password is read from the terminal twice, without")
		fmt.Println("echo. Weak passwords are warned about but stored anyway.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passvault set github             # Prompt for the password")
		fmt.Println("  passvault set -p hunter2 legacy  # Take it from the flag")
	case "get":
		fmt.Println("passvault get <label>")
		fmt.Println()
		fmt.Println("Prints the password stored under the label. Only the password is")
		fmt.Println("written to stdout, so the output can be piped.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  passvault get github | xclip -selection clipboard")
	case "ls":
		fmt.Println("passvault ls")
		fmt.Println()
		fmt.Println("Lists the stored labels in sorted order, one per line.")
		fmt.Println("Passwords are never shown.")
	case "rm":
		fmt.Println("passvault rm <label> [label...]")
		fmt.Println()
		fmt.Println("Removes labels from the vault and saves the result. Unknown")
		fmt.Println("labels are reported but do not stop the others from being removed.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  passvault rm old-email old-bank")
	case "check":
		fmt.Println("passvault check [-p PASSWORD]")
		fmt.Println()
		fmt.Println("Scores a password's strength (0-4) with an estimated crack time")
		fmt.Println("and advice. Nothing is stored; without -p the password is read")
		fmt.Println("from the terminal without echo.")
	case "status":
		fmt.Println("passvault status")
		fmt.Println()
		fmt.Println("Shows the state of the vault directory:")
		fmt.Println("  - Vault file presence, size, and when it was last sealed")
		fmt.Println("  - Which key source is in effect")
		fmt.Println("  - Entry count (when vault and key both exist)")
		fmt.Println("  - Snapshot history count")
		fmt.Println("  - How git treats the key and vault files")
		fmt.Println()
		fmt.Println("Reading the status never creates a key or vault file.")
	case "history":
		fmt.Println("passvault history [-keep N]")
		fmt.Println()
		fmt.Println("Lists the recorded vault snapshots, oldest first. Snapshots are")
		fmt.Println("taken automatically on every save unless -no-history is given.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -keep N   Prune history down to the newest N snapshots first")
	case "diff":
		fmt.Println("passvault diff [-from SEQ] [-to SEQ]")
		fmt.Println()
		fmt.Println("Compares two vault states by label. Changed passwords show up as")
		fmt.Println("changed fingerprint lines; passwords themselves are never printed.")
		fmt.Println("By default the latest snapshot is compared with the current vault.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passvault diff               # Latest snapshot vs current")
		fmt.Println("  passvault diff -from 3 -to 7 # Between two snapshots")
	case "keyring":
		fmt.Println("passvault keyring <save|status|delete>")
		fmt.Println()
		fmt.Println("Manages the vault key in the operating system keyring.")
		fmt.Println("  save     Copy the key file's key into the keyring")
		fmt.Println("  status   Report whether a key is stored")
		fmt.Println("  delete   Remove the key from the keyring")
		fmt.Println()
		fmt.Println("After 'save', run commands with -keyring to use the stored key.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
