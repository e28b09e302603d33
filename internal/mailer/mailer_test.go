package mailer_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/mail"
	"net/textproto"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/mailer"
)

func TestMailer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mailer Suite")
}

type session struct {
	commands []string
	data     string
}

// serveOnce answers a single SMTP conversation without TLS.
func serveOnce(ln net.Listener, done chan<- session) {
	var s session
	defer func() { done <- s }()

	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP test")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.commands = append(s.commands, line)
		verb := strings.ToUpper(strings.Fields(line + " ")[0])
		switch verb {
		case "EHLO":
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case "AUTH":
			_ = tp.PrintfLine("235 2.7.0 accepted")
		case "DATA":
			_ = tp.PrintfLine("354 end with <CRLF>.<CRLF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			s.data = strings.Join(lines, "\r\n")
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("250 ok")
		}
	}
}

var _ = Describe("SMTPMailer", func() {
	var (
		ln     net.Listener
		done   chan session
		logger *slog.Logger
		port   int
	)

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		port = ln.Addr().(*net.TCPAddr).Port
		done = make(chan session, 1)
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		go serveOnce(ln, done)
	})

	AfterEach(func() {
		_ = ln.Close()
	})

	It("delivers an encoded html message", func() {
		m := mailer.NewSMTPMailer(internal.MailConfig{
			Host: "127.0.0.1", Port: port, Username: "noreply@example.com", Password: "secret",
		}, logger)

		Expect(m.Send(context.Background(), "user@example.com", "注册验证码", "<p><strong>123456</strong></p>")).To(Succeed())

		var s session
		Eventually(done).Should(Receive(&s))
		Expect(s.commands).To(ContainElement(HavePrefix("AUTH PLAIN")))
		Expect(s.commands).To(ContainElement("MAIL FROM:<noreply@example.com>"))
		Expect(s.commands).To(ContainElement("RCPT TO:<user@example.com>"))

		msg, err := mail.ReadMessage(strings.NewReader(s.data + "\r\n"))
		Expect(err).NotTo(HaveOccurred())

		dec := new(mime.WordDecoder)
		subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
		Expect(err).NotTo(HaveOccurred())
		Expect(subject).To(Equal("注册验证码"))

		from, err := dec.DecodeHeader(msg.Header.Get("From"))
		Expect(err).NotTo(HaveOccurred())
		Expect(from).To(Equal(mailer.DefaultFromName + " <noreply@example.com>"))
		Expect(msg.Header.Get("Content-Type")).To(Equal("text/html; charset=UTF-8"))

		raw, err := io.ReadAll(msg.Body)
		Expect(err).NotTo(HaveOccurred())
		body, err := base64.StdEncoding.DecodeString(string(bytes.ReplaceAll(bytes.TrimSpace(raw), []byte("\r\n"), nil)))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal("<p><strong>123456</strong></p>"))
	})

	It("rejects header injection in the recipient", func() {
		m := mailer.NewSMTPMailer(internal.MailConfig{Host: "127.0.0.1", Port: port}, logger)
		err := m.Send(context.Background(), "a@b.c\r\nBcc: x@y.z", "s", "b")
		Expect(err).To(MatchError(mailer.ErrInvalidRecipient))
	})

	It("reports an unreachable server", func() {
		closed, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		addr := closed.Addr().(*net.TCPAddr)
		_ = closed.Close()

		m := mailer.NewSMTPMailer(internal.MailConfig{Host: "127.0.0.1", Port: addr.Port}, logger)
		err = m.Send(context.Background(), "user@example.com", "s", "b")
		Expect(err).To(MatchError(ContainSubstring("connect to smtp server")))
	})
})

var _ = Describe("LogMailer", func() {
	It("accepts every message", func() {
		var buf bytes.Buffer
		m := mailer.NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))
		Expect(m.Send(context.Background(), "user@example.com", "注册验证码", "body")).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("user@example.com"))
	})
})
