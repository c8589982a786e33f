// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	classfile "github.com/saferwall/classfile"
)

type config struct {
	wantConstants  bool
	wantFlags      bool
	wantInterfaces bool
	wantFields     bool
	wantMethods    bool
	wantAttributes bool
	wantCode       bool
	wantNative     bool
}

func main() {
	dumpCmd := flag.NewFlagSet("dump", flag.ExitOnError)
	dumpConstants := dumpCmd.Bool("pool", false, "Dump the constant pool")
	dumpFlags := dumpCmd.Bool("flags", false, "Dump class access flags")
	dumpInterfaces := dumpCmd.Bool("interfaces", false, "Dump implemented interfaces")
	dumpFields := dumpCmd.Bool("fields", false, "Dump field declarations")
	dumpMethods := dumpCmd.Bool("methods", false, "Dump method declarations")
	dumpAttributes := dumpCmd.Bool("attributes", false, "Dump class-level attributes")
	dumpCode := dumpCmd.Bool("code", false, "With -methods, dump full method structures including decoded Code")
	dumpNative := dumpCmd.Bool("native", false, "Print this_class as a decoded native string (diagnostic only)")

	verCmd := flag.NewFlagSet("version", flag.ExitOnError)

	if len(os.Args) < 2 {
		showHelp()
	}

	switch os.Args[1] {
	case "dump":
		if len(os.Args) < 3 {
			showHelp()
		}
		dumpCmd.Parse(os.Args[3:])
		cfg := config{
			wantConstants:  *dumpConstants,
			wantFlags:      *dumpFlags,
			wantInterfaces: *dumpInterfaces,
			wantFields:     *dumpFields,
			wantMethods:    *dumpMethods,
			wantAttributes: *dumpAttributes,
			wantCode:       *dumpCode,
			wantNative:     *dumpNative,
		}
		dump(os.Args[2], cfg)
	case "version":
		verCmd.Parse(os.Args[2:])
		fmt.Println("You are using version 0.1.0")
	default:
		showHelp()
	}
}

func dump(filename string, cfg config) {
	cf, err := classfile.Open(filename, &classfile.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening %s: %v\n", filename, err)
		os.Exit(1)
	}
	defer cf.Close()

	fmt.Printf("major=%d minor=%d this=%d super=%d\n",
		cf.MajorVersion, cf.MinorVersion, cf.ThisClass, cf.SuperClass)

	if cfg.wantFlags {
		fmt.Println(prettyPrint(cf.AccessFlags))
	}
	if cfg.wantConstants {
		fmt.Println(prettyPrint(cf.Constants))
	}
	if cfg.wantInterfaces {
		fmt.Println(prettyPrint(cf.Interfaces))
	}
	if cfg.wantFields {
		fmt.Println(prettyPrint(cf.Fields))
	}
	if cfg.wantMethods {
		if cfg.wantCode {
			fmt.Println(prettyPrint(cf.Methods))
		} else {
			for _, m := range cf.Methods {
				name, _ := cf.GetString(m.Name)
				descriptor, _ := cf.GetString(m.Descriptor)
				fmt.Printf("  %s%s\n", name, descriptor)
			}
		}
	}
	if cfg.wantAttributes {
		fmt.Println(prettyPrint(cf.Attributes))
	}
	if cfg.wantNative {
		if thisClass, ok := cf.Constants[cf.ThisClass].(classfile.Class); ok {
			native, err := cf.NativeString(thisClass.NameIndex)
			if err != nil {
				fmt.Fprintf(os.Stderr, "native string: %v\n", err)
			} else {
				fmt.Printf("native this_class: %s\n", native)
			}
		}
	}
}

func prettyPrint(v interface{}) string {
	var out bytes.Buffer
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	if err := json.Indent(&out, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return out.String()
}

func showHelp() {
	fmt.Print(
		`
┌─┐┬  ┌─┐┌─┐┌─┐┌┬┐┬ ┬┌┬┐┌─┐
│  │  ├─┤└─┐└─┐ │││ ││││├─┘
└─┘┴─┘┴ ┴└─┘└─┘─┴┘└─┘┴ ┴┴

	A JVM class file codec built for round-trip fidelity.
`)
	fmt.Println("\nUsage: classdump dump <file> [flags] | classdump version")
	os.Exit(1)
}
