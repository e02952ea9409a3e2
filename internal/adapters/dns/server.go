package dns

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	"topoplan/internal/domain/topology"

	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"
)

// RecordSource resolves stored plans by id
type RecordSource interface {
	Get(ctx context.Context, id string) (*topology.Record, error)
}

// Server answers A queries of the form <device>.<graph id>.<zone> with the
// address the stored plan assigned to that device.
type Server struct {
	records RecordSource
	addr    string
	zone    string
	ttl     uint32

	mu  sync.Mutex
	srv *dns.Server
}

func NewServer(records RecordSource, addr, zone string, ttl uint32) *Server {
	return &Server{
		records: records,
		addr:    addr,
		zone:    dns.Fqdn(strings.ToLower(zone)),
		ttl:     ttl,
	}
}

// Handler returns the zone handler, for callers that run their own dns.Server
func (s *Server) Handler() dns.Handler {
	mux := dns.NewServeMux()
	mux.HandleFunc(s.zone, s.handleDNS)
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeRefused)
		_ = w.WriteMsg(m)
	})
	return mux
}

// ListenAndServe serves UDP until Shutdown is called
func (s *Server) ListenAndServe() error {
	s.mu.Lock()
	s.srv = &dns.Server{Addr: s.addr, Net: "udp", Handler: s.Handler()}
	srv := s.srv
	s.mu.Unlock()

	log.Info().Str("addr", s.addr).Str("zone", s.zone).Msg("DNS server listening")
	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.ShutdownContext(ctx)
}

func (s *Server) handleDNS(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true

	for _, q := range r.Question {
		ip, rcode := s.lookup(context.Background(), q.Name)
		if rcode != dns.RcodeSuccess {
			m.Rcode = rcode
			continue
		}
		if q.Qtype != dns.TypeA && q.Qtype != dns.TypeANY {
			continue
		}
		m.Answer = append(m.Answer, &dns.A{
			Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: s.ttl},
			A:   ip,
		})
	}
	if err := w.WriteMsg(m); err != nil {
		log.Debug().Err(err).Msg("write dns reply")
	}
}

// lookup resolves one query name to a device address
func (s *Server) lookup(ctx context.Context, qname string) (net.IP, int) {
	name := strings.ToLower(dns.Fqdn(qname))
	if !dns.IsSubDomain(s.zone, name) {
		return nil, dns.RcodeRefused
	}
	labels := dns.SplitDomainName(strings.TrimSuffix(name, s.zone))
	if len(labels) != 2 {
		return nil, dns.RcodeNameError
	}
	device, graphID := labels[0], labels[1]

	rec, err := s.records.Get(ctx, graphID)
	if errors.Is(err, topology.ErrTopologyNotFound) {
		return nil, dns.RcodeNameError
	}
	if err != nil {
		log.Error().Err(err).Str("graph_id", graphID).Msg("dns lookup")
		return nil, dns.RcodeServerFailure
	}

	for _, list := range [][]topology.DeviceConfig{rec.HierarchyConfigs, rec.AccessConfigs} {
		for _, cfg := range list {
			if SanitizeLabel(cfg.Device) != device || cfg.IPAddress == "" {
				continue
			}
			if ip := net.ParseIP(cfg.IPAddress).To4(); ip != nil {
				return ip, dns.RcodeSuccess
			}
		}
	}
	return nil, dns.RcodeNameError
}

// SanitizeLabel turns a device name into a DNS label, e.g. Router_1 to router-1
func SanitizeLabel(label string) string {
	label = strings.ToLower(label)
	label = strings.ReplaceAll(label, "_", "-")
	label = strings.ReplaceAll(label, " ", "-")
	label = strings.Trim(label, "-")
	if len(label) > 63 {
		label = label[:63]
	}
	return label
}
