package server

import (
	"context"
	"net"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"redikv/internal/aof"
	"redikv/internal/logging"
	"redikv/internal/pubsub"
	"redikv/internal/store"
)

func TestServerIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Integration Suite")
}

var _ = Describe("End-to-end RESP session", func() {
	var (
		listener net.Listener
		srv      *Server
		client   *redis.Client
		ctx      context.Context
		closeCh  chan struct{}
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		listener, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		db := store.New()
		broker := pubsub.New()
		srv = New(db, broker, (*aof.AOF)(nil), logging.Default)
		closeCh = make(chan struct{})

		go func() {
			defer GinkgoRecover()
			srv.serve(listener, closeCh)
		}()

		client = redis.NewClient(&redis.Options{Addr: listener.Addr().String()})
		Eventually(func() error {
			return client.Ping(ctx).Err()
		}, "2s", "20ms").Should(Succeed())
	})

	AfterEach(func() {
		close(closeCh)
		if client != nil {
			client.Close()
		}
	})

	It("responds to PING", func() {
		Expect(client.Ping(ctx).Val()).To(Equal("PONG"))
	})

	It("round-trips SET/GET", func() {
		Expect(client.Set(ctx, "k", "v", 0).Err()).NotTo(HaveOccurred())
		Expect(client.Get(ctx, "k").Val()).To(Equal("v"))
	})

	It("expires keys by TTL", func() {
		Expect(client.Do(ctx, "SET", "k", "v", "EX", "1").Err()).NotTo(HaveOccurred())
		Eventually(func() error {
			return client.Get(ctx, "k").Err()
		}, "3s", "100ms").Should(Equal(redis.Nil))
	})

	It("supports list operations", func() {
		Expect(client.LPush(ctx, "l", "b", "a").Err()).NotTo(HaveOccurred())
		vals, err := client.LRange(ctx, "l", 0, -1).Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(Equal([]string{"a", "b"}))
	})

	It("rejects LPUSH against a string key with WRONGTYPE", func() {
		Expect(client.Set(ctx, "k", "v", 0).Err()).NotTo(HaveOccurred())
		err := client.LPush(ctx, "k", "x").Err()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("WRONGTYPE"))
		Expect(client.Get(ctx, "k").Val()).To(Equal("v"))
	})

	It("reports publish subscriber counts", func() {
		Expect(client.Publish(ctx, "ch", "hi").Val()).To(Equal(int64(0)))
	})
})
