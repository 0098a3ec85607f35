package command

import (
	"strconv"
	"strings"
	"time"

	"redikv/internal/pubsub"
	"redikv/internal/resp"
	"redikv/internal/store"
)

func init() {
	register("PING", arityAny, false, execPing)
	register("SET", -2, true, execSet)
	register("GET", 1, false, execGet)
	register("DEL", -1, true, execDel)
	register("EXISTS", 1, false, execExists)
	register("TYPE", 1, false, execType)
	register("KEYS", 1, false, execKeys)
	register("DBSIZE", 0, false, execDBSize)
	register("FLUSHDB", 0, true, execFlushDB)

	register("LPUSH", -2, true, execLPush)
	register("RPUSH", -2, true, execRPush)
	register("LPOP", 1, true, execLPop)
	register("RPOP", 1, true, execRPop)
	register("LRANGE", 3, false, execLRange)
	register("LLEN", 1, false, execLLen)

	register("SADD", -2, true, execSAdd)
	register("SREM", -2, true, execSRem)
	register("SMEMBERS", 1, false, execSMembers)
	register("SISMEMBER", 2, false, execSIsMember)
	register("SCARD", 1, false, execSCard)

	register("HSET", 3, true, execHSet)
	register("HGET", 2, false, execHGet)
	register("HGETALL", 1, false, execHGetAll)
	register("HDEL", -2, true, execHDel)
	register("HEXISTS", 2, false, execHExists)
	register("HLEN", 1, false, execHLen)

	register("PUBLISH", 2, false, execPublish)
}

func wrongTypeReply() resp.Frame { return resp.Err(store.ErrWrongType.Error()) }

func notInteger() resp.Frame {
	return resp.Errf("ERR", "value is not an integer or out of range")
}

// --- generic ---

func execPing(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	switch len(args) {
	case 0:
		return resp.Simple("PONG"), false
	case 1:
		return resp.Bulk(args[0]), false
	default:
		return errSyntax("wrong number of arguments"), false
	}
}

func execDel(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	keys := make([]string, len(args))
	for i, a := range args {
		keys[i] = string(a)
	}
	n := db.Del(keys)
	return resp.Integer(n), n > 0
}

func execExists(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	return resp.Integer(db.Exists(string(args[0]))), false
}

func execType(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	return resp.Simple(db.Type(string(args[0]))), false
}

func execKeys(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	keys := db.Keys(string(args[0]))
	out := make([]resp.Frame, len(keys))
	for i, k := range keys {
		out[i] = resp.BulkString(k)
	}
	return resp.Array(out), false
}

func execDBSize(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	return resp.Integer(db.DBSize()), false
}

func execFlushDB(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	db.FlushDB()
	return resp.Simple("OK"), true
}

// --- strings ---

func execSet(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	key, val := string(args[0]), args[1]
	rest := args[2:]

	var ttl time.Duration
	if len(rest) > 0 {
		if len(rest) != 2 || !strings.EqualFold(string(rest[0]), "EX") {
			return errSyntax("syntax error"), false
		}
		seconds, err := strconv.ParseInt(string(rest[1]), 10, 64)
		if err != nil {
			return notInteger(), false
		}
		if seconds <= 0 {
			return errSyntax("invalid expire time, must be positive"), false
		}
		ttl = time.Duration(seconds) * time.Second
	}

	db.Set(key, val, ttl)
	return resp.Simple("OK"), true
}

func execGet(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	val, ok, err := db.Get(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	if !ok {
		return resp.NullBulk(), false
	}
	return resp.Bulk(val), false
}

// --- lists ---

func execLPush(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.LPush(string(args[0]), args[1:]...)
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), true
}

func execRPush(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.RPush(string(args[0]), args[1:]...)
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), true
}

func execLPop(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	val, ok, err := db.LPop(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	if !ok {
		return resp.NullBulk(), false
	}
	return resp.Bulk(val), true
}

func execRPop(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	val, ok, err := db.RPop(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	if !ok {
		return resp.NullBulk(), false
	}
	return resp.Bulk(val), true
}

func execLRange(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	start, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return notInteger(), false
	}
	stop, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return notInteger(), false
	}
	vals, err := db.LRange(string(args[0]), start, stop)
	if err != nil {
		return wrongTypeReply(), false
	}
	out := make([]resp.Frame, len(vals))
	for i, v := range vals {
		out[i] = resp.Bulk(v)
	}
	return resp.Array(out), false
}

func execLLen(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.LLen(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), false
}

// --- sets ---

func execSAdd(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.SAdd(string(args[0]), bytesToStrings(args[1:])...)
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), n > 0
}

func execSRem(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.SRem(string(args[0]), bytesToStrings(args[1:])...)
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), n > 0
}

func execSMembers(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	members, err := db.SMembers(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	out := make([]resp.Frame, len(members))
	for i, m := range members {
		out[i] = resp.BulkString(m)
	}
	return resp.Array(out), false
}

func execSIsMember(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	ok, err := db.SIsMember(string(args[0]), string(args[1]))
	if err != nil {
		return wrongTypeReply(), false
	}
	if ok {
		return resp.Integer(1), false
	}
	return resp.Integer(0), false
}

func execSCard(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.SCard(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), false
}

// --- hashes ---

func execHSet(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.HSet(string(args[0]), string(args[1]), args[2])
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), true
}

func execHGet(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	val, ok, err := db.HGet(string(args[0]), string(args[1]))
	if err != nil {
		return wrongTypeReply(), false
	}
	if !ok {
		return resp.NullBulk(), false
	}
	return resp.Bulk(val), false
}

func execHGetAll(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	flat, err := db.HGetAll(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	out := make([]resp.Frame, len(flat))
	for i, v := range flat {
		out[i] = resp.Bulk(v)
	}
	return resp.Array(out), false
}

func execHDel(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.HDel(string(args[0]), bytesToStrings(args[1:])...)
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), n > 0
}

func execHExists(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	ok, err := db.HExists(string(args[0]), string(args[1]))
	if err != nil {
		return wrongTypeReply(), false
	}
	if ok {
		return resp.Integer(1), false
	}
	return resp.Integer(0), false
}

func execHLen(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n, err := db.HLen(string(args[0]))
	if err != nil {
		return wrongTypeReply(), false
	}
	return resp.Integer(n), false
}

// --- pub/sub ---

func execPublish(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool) {
	n := b.Publish(string(args[0]), args[1])
	return resp.Integer(n), false
}

func bytesToStrings(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}
