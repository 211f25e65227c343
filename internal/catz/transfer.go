/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */
package catz

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/config"
)

const tsigFudge = 300

// TransferRequest identifies a catalog zone on a master.
type TransferRequest struct {
	Origin string
	Master string
	Key    *config.TSIGKey
}

// TransferClient talks to the master of a catalog zone.
type TransferClient interface {
	// Serial returns the SOA serial the master currently serves for the zone.
	Serial(ctx context.Context, request TransferRequest) (uint32, error)

	// Transfer performs a full zone transfer.
	Transfer(ctx context.Context, request TransferRequest) ([]dns.RR, error)
}

// DNSTransferClient is the TransferClient that speaks DNS over TCP, signing requests with TSIG when a key is set.
type DNSTransferClient struct {
	Timeout time.Duration
}

func NewDNSTransferClient(timeout time.Duration) *DNSTransferClient {
	return &DNSTransferClient{Timeout: timeout}
}

func (client *DNSTransferClient) Serial(ctx context.Context, request TransferRequest) (uint32, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(common.MakeDomainCanonical(request.Origin), dns.TypeSOA)

	dnsClient := &dns.Client{
		Net:     "tcp",
		Timeout: client.Timeout,
	}
	if request.Key != nil {
		dnsClient.TsigSecret = map[string]string{request.Key.FQDN(): request.Key.Secret}
		msg.SetTsig(request.Key.FQDN(), request.Key.AlgorithmFQDN(), tsigFudge, time.Now().Unix())
	}

	response, _, err := dnsClient.ExchangeContext(ctx, msg, request.Master)
	if err != nil {
		return 0, fmt.Errorf("SOA query failed: %w", err)
	}
	if response.Rcode != dns.RcodeSuccess {
		return 0, fmt.Errorf("SOA query failed: %s", dns.RcodeToString[response.Rcode])
	}

	for _, rr := range response.Answer {
		if soa, ok := rr.(*dns.SOA); ok {
			return soa.Serial, nil
		}
	}

	return 0, fmt.Errorf("no SOA record in response")
}

func (client *DNSTransferClient) Transfer(ctx context.Context, request TransferRequest) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetAxfr(common.MakeDomainCanonical(request.Origin))

	transfer := &dns.Transfer{
		DialTimeout:  client.Timeout,
		ReadTimeout:  client.Timeout,
		WriteTimeout: client.Timeout,
	}
	if request.Key != nil {
		transfer.TsigSecret = map[string]string{request.Key.FQDN(): request.Key.Secret}
		msg.SetTsig(request.Key.FQDN(), request.Key.AlgorithmFQDN(), tsigFudge, time.Now().Unix())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	envelopes, err := transfer.In(msg, request.Master)
	if err != nil {
		return nil, fmt.Errorf("AXFR failed: %w", err)
	}

	// The channel has to be drained even after an error so the reader goroutine can finish.
	var records []dns.RR
	var envelopeErr error
	for envelope := range envelopes {
		if envelope.Error != nil {
			if envelopeErr == nil {
				envelopeErr = fmt.Errorf("AXFR envelope error: %w", envelope.Error)
			}
			continue
		}
		records = append(records, envelope.RR...)
	}
	if envelopeErr != nil {
		return nil, envelopeErr
	}

	return records, nil
}
