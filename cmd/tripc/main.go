package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(os.Args[2:])
	case "link":
		runLink(os.Args[2:])
	case "dump":
		runDump(os.Args[2:])
	case "--help", "-h", "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("tripc - TripLang compiler and linker"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tripc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <input.trip> [output.tripc]       compile a module to an object file\n", cyan("compile"))
	fmt.Printf("  %s [--manifest FILE] <f1.tripc> ...   link object files and print the SKI form of main\n", cyan("link"))
	fmt.Printf("  %s <file.tripc>                       pretty-print an object file\n", cyan("dump"))
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", cyan("tripc compile main.trip main.tripc"))
	fmt.Printf("  %s\n", cyan("tripc link main.tripc prelude.tripc"))
	fmt.Printf("  %s\n", cyan("tripc link --manifest link.yaml"))
	fmt.Printf("  %s\n", cyan("tripc dump main.tripc"))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
