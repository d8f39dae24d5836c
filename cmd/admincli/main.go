package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/op47/clipchat/internal/admincli"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admincli [-s server] register|login|logout")
	os.Exit(2)
}

func main() {
	serverURL := flag.String("s", "http://localhost:2001", "server base URL")
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}

	ctx := context.Background()
	client := admincli.NewClient(*serverURL)
	reader := bufio.NewReader(os.Stdin)

	var err error
	switch flag.Arg(0) {
	case "register":
		err = issueToken(ctx, client.Register, reader)
	case "login":
		err = issueToken(ctx, client.Login, reader)
	case "logout":
		var token string
		token, err = admincli.ReadLine(reader, "Enter token", os.Stdout)
		if err == nil {
			err = client.Logout(ctx, token)
		}
		if err == nil {
			fmt.Println("token revoked")
		}
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type issueFunc func(ctx context.Context, username, password string) (string, error)

func issueToken(ctx context.Context, issue issueFunc, reader *bufio.Reader) error {
	username, err := admincli.ReadLine(reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := admincli.ReadPassword(os.Stdout)
	if err != nil {
		return err
	}

	token, err := issue(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
