// Package main provides a command-line utility to dump decoded RB value
// trees for debugging.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/scigolib/rbmarshal"
)

func main() {
	fingerprint := flag.Bool("fingerprint", false, "print the value's structural fingerprint instead of its tree")
	strict := flag.Bool("strict-encoding", false, "reject IVAR strings whose bytes don't match their declared encoding")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: rbdump [flags] <file.rb.bin>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	f, err := os.Open(args[0])
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close file: %v", err)
		}
	}()

	var opts []rbmarshal.ReadOption
	if *strict {
		opts = append(opts, rbmarshal.WithStrictEncoding())
	}

	value, err := rbmarshal.Load(f, opts...)
	if err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	if *fingerprint {
		fmt.Printf("%016x\n", rbmarshal.Fingerprint(value))
		return
	}

	dumpValue(value, 0, map[rbmarshal.Value]bool{})
}

func dumpValue(v rbmarshal.Value, depth int, seen map[rbmarshal.Value]bool) {
	indent := func(extra int) {
		for i := 0; i < depth+extra; i++ {
			fmt.Print("  ")
		}
	}

	if v == nil {
		fmt.Println("nil")
		return
	}
	if seen[v] {
		fmt.Printf("<repeated %s>\n", v.Kind())
		return
	}

	switch val := v.(type) {
	case rbmarshal.Null:
		fmt.Println("null")
	case rbmarshal.Bool:
		fmt.Println(bool(val))
	case rbmarshal.Int:
		fmt.Println(val.V.String())
	case rbmarshal.Symbol:
		fmt.Printf(":%s\n", string(val))
	case *rbmarshal.Float:
		seen[v] = true
		fmt.Println(val.V)
	case *rbmarshal.ByteString:
		seen[v] = true
		fmt.Printf("%q\n", val.Data)
	case *rbmarshal.DecodedString:
		seen[v] = true
		fmt.Printf("%q (%s)\n", val.Text, val.Encoding)
	case *rbmarshal.Regex:
		seen[v] = true
		fmt.Printf("/%s/ ignoreCase=%v multiline=%v\n", val.Pattern, val.IgnoreCase, val.Multiline)
	case *rbmarshal.Array:
		seen[v] = true
		fmt.Printf("Array[%d]\n", len(val.Items))
		for _, item := range val.Items {
			indent(1)
			dumpValue(item, depth+1, seen)
		}
	case *rbmarshal.Hash:
		seen[v] = true
		fmt.Printf("Hash[%d]\n", len(val.Entries))
		for _, e := range val.Entries {
			indent(1)
			fmt.Print("key: ")
			dumpValue(e.Key, depth+1, seen)
			indent(1)
			fmt.Print("val: ")
			dumpValue(e.Value, depth+1, seen)
		}
	case *rbmarshal.UserMarshal:
		seen[v] = true
		fmt.Printf("UserMarshal(%s)\n", val.Class)
		indent(1)
		dumpValue(val.Inner, depth+1, seen)
	case *rbmarshal.UserDef:
		seen[v] = true
		fmt.Printf("UserDef(%s) %d bytes\n", val.Class, len(val.Data))
	case *rbmarshal.Object:
		seen[v] = true
		fmt.Printf("Object(%s)\n", val.Class)
		val.Attrs.Each(func(name rbmarshal.Symbol, value rbmarshal.Value) {
			indent(1)
			fmt.Printf("%s: ", name)
			dumpValue(value, depth+1, seen)
		})
	case *rbmarshal.Module:
		fmt.Printf("Module(%s)\n", val.Name)
	case *rbmarshal.Class:
		fmt.Printf("Class(%s)\n", val.Name)
	case *rbmarshal.StructValue:
		seen[v] = true
		fmt.Printf("Struct(%s)\n", val.Class)
	case *rbmarshal.DataValue:
		seen[v] = true
		fmt.Printf("Data(%s)\n", val.Class)
		indent(1)
		dumpValue(val.Inner, depth+1, seen)
	case *rbmarshal.ExtendedValue:
		seen[v] = true
		fmt.Printf("Extended%v\n", val.Modules)
		indent(1)
		dumpValue(val.Inner, depth+1, seen)
	default:
		fmt.Printf("<unknown %s>\n", v.Kind())
	}
}
